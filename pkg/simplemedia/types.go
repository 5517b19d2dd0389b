package simplemedia

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaEntityType is the entity type ID of media items.
const MediaEntityType = "media"

// MediaType is a named category of media bound to exactly one source.
type MediaType struct {
	ID          string
	Label       string
	Description string
	Source      Source
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SourceFieldID returns the ID of the field config the type's source
// populates, "media.<type>.<source field>".
func (t *MediaType) SourceFieldID() string {
	return FieldConfigID(MediaEntityType, t.ID, t.Source.SourceFieldName())
}

type mediaTypeJSON struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Description  string    `json:"description,omitempty"`
	SourcePlugin string    `json:"source"`
	SourceField  string    `json:"source_field"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarshalJSON flattens the source into its plugin ID and field name.
func (t MediaType) MarshalJSON() ([]byte, error) {
	rec := mediaTypeJSON{
		ID:          t.ID,
		Label:       t.Label,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Source != nil {
		rec.SourcePlugin = t.Source.PluginID()
		rec.SourceField = t.Source.SourceFieldName()
	}
	return json.Marshal(rec)
}

// UnmarshalJSON rebuilds the source from its plugin ID and field name.
func (t *MediaType) UnmarshalJSON(data []byte) error {
	var rec mediaTypeJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	source, err := NewSource(rec.SourcePlugin, rec.SourceField)
	if err != nil {
		return fmt.Errorf("media type %s: %w", rec.ID, err)
	}
	*t = MediaType{
		ID:          rec.ID,
		Label:       rec.Label,
		Description: rec.Description,
		Source:      source,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	return nil
}

// Field types with special handling.
const (
	FieldTypeEntityReference = "entity_reference"
)

// FieldSettings holds the typed settings of a field config.
type FieldSettings struct {
	// TargetType is the entity type referenced by entity reference fields
	TargetType string `json:"target_type,omitempty"`
	// TargetBundles restricts an entity reference field to these bundles; empty allows all
	TargetBundles []string `json:"target_bundles,omitempty"`
	Required      bool     `json:"required,omitempty"`
}

// FieldConfig attaches a field to a bundle of an entity type.
type FieldConfig struct {
	ID               string        `json:"id"`
	TargetEntityType string        `json:"entity_type"`
	TargetBundle     string        `json:"bundle"`
	FieldName        string        `json:"field_name"`
	FieldType        string        `json:"field_type"`
	Label            string        `json:"label"`
	Settings         FieldSettings `json:"settings"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// FieldConfigID builds the conventional "<entityType>.<bundle>.<fieldName>" ID.
func FieldConfigID(entityType, bundle, fieldName string) string {
	return entityType + "." + bundle + "." + fieldName
}

// ReferencesMedia reports whether the field is an entity reference to media.
func (f *FieldConfig) ReferencesMedia() bool {
	return f.FieldType == FieldTypeEntityReference && f.Settings.TargetType == MediaEntityType
}

// MediaItem is a single piece of media of a given bundle.
type MediaItem struct {
	ID        uuid.UUID `json:"id"`
	Bundle    string    `json:"bundle"`
	Label     string    `json:"label"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
