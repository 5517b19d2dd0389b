package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-media/pkg/simplemedia"
)

// Repository implements simplemedia.Repository using in-memory storage
type Repository struct {
	mu           sync.RWMutex
	mediaTypes   map[string]*simplemedia.MediaType
	fieldConfigs map[string]*simplemedia.FieldConfig
	mediaItems   map[uuid.UUID]*simplemedia.MediaItem
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		mediaTypes:   make(map[string]*simplemedia.MediaType),
		fieldConfigs: make(map[string]*simplemedia.FieldConfig),
		mediaItems:   make(map[uuid.UUID]*simplemedia.MediaItem),
	}
}

// Media type operations

func (r *Repository) CreateMediaType(ctx context.Context, mediaType *simplemedia.MediaType) error {
	if mediaType.Source == nil {
		return simplemedia.ErrMissingSource
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mediaTypes[mediaType.ID]; exists {
		return simplemedia.ErrMediaTypeExists
	}

	// Store a copy to avoid external modifications
	typeCopy := *mediaType
	r.mediaTypes[mediaType.ID] = &typeCopy
	return nil
}

func (r *Repository) LookupMediaType(ctx context.Context, id string) (*simplemedia.MediaType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mediaType, exists := r.mediaTypes[id]
	if !exists {
		return nil, simplemedia.ErrMediaTypeNotFound
	}
	typeCopy := *mediaType
	return &typeCopy, nil
}

func (r *Repository) ListMediaTypes(ctx context.Context) ([]*simplemedia.MediaType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simplemedia.MediaType, 0, len(r.mediaTypes))
	for _, mediaType := range r.mediaTypes {
		typeCopy := *mediaType
		result = append(result, &typeCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *Repository) DeleteMediaType(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mediaTypes[id]; !exists {
		return simplemedia.ErrMediaTypeNotFound
	}
	for _, item := range r.mediaItems {
		if item.Bundle == id {
			return simplemedia.ErrMediaTypeInUse
		}
	}

	for fieldID, field := range r.fieldConfigs {
		if field.TargetEntityType == simplemedia.MediaEntityType && field.TargetBundle == id {
			delete(r.fieldConfigs, fieldID)
		}
	}
	delete(r.mediaTypes, id)
	return nil
}

// Field config operations

func (r *Repository) CreateFieldConfig(ctx context.Context, field *simplemedia.FieldConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fieldConfigs[field.ID]; exists {
		return simplemedia.ErrFieldConfigExists
	}
	r.fieldConfigs[field.ID] = copyField(field)
	return nil
}

func (r *Repository) GetFieldConfig(ctx context.Context, id string) (*simplemedia.FieldConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	field, exists := r.fieldConfigs[id]
	if !exists {
		return nil, simplemedia.ErrFieldConfigNotFound
	}
	return copyField(field), nil
}

func (r *Repository) ListFieldConfigs(ctx context.Context, entityType, bundle string) ([]*simplemedia.FieldConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simplemedia.FieldConfig
	for _, field := range r.fieldConfigs {
		if entityType != "" && field.TargetEntityType != entityType {
			continue
		}
		if bundle != "" && field.TargetBundle != bundle {
			continue
		}
		result = append(result, copyField(field))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *Repository) DeleteFieldConfig(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fieldConfigs[id]; !exists {
		return simplemedia.ErrFieldConfigNotFound
	}
	delete(r.fieldConfigs, id)
	return nil
}

// Media item operations

func (r *Repository) CreateMediaItem(ctx context.Context, item *simplemedia.MediaItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	itemCopy := *item
	r.mediaItems[item.ID] = &itemCopy
	return nil
}

func (r *Repository) GetMediaItem(ctx context.Context, id uuid.UUID) (*simplemedia.MediaItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.mediaItems[id]
	if !exists {
		return nil, simplemedia.ErrMediaItemNotFound
	}
	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) ListMediaItems(ctx context.Context, bundle string) ([]*simplemedia.MediaItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simplemedia.MediaItem
	for _, item := range r.mediaItems {
		if bundle != "" && item.Bundle != bundle {
			continue
		}
		itemCopy := *item
		result = append(result, &itemCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) CountMediaItems(ctx context.Context, bundle string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.mediaItems {
		if bundle == "" || item.Bundle == bundle {
			count++
		}
	}
	return count, nil
}

func (r *Repository) DeleteMediaItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mediaItems[id]; !exists {
		return simplemedia.ErrMediaItemNotFound
	}
	delete(r.mediaItems, id)
	return nil
}

func copyField(field *simplemedia.FieldConfig) *simplemedia.FieldConfig {
	fieldCopy := *field
	if field.Settings.TargetBundles != nil {
		fieldCopy.Settings.TargetBundles = append([]string(nil), field.Settings.TargetBundles...)
	}
	return &fieldCopy
}

var _ simplemedia.Repository = (*Repository)(nil)
