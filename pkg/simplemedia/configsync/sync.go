// Package configsync exports media configuration to a Store and imports it
// back. Media types are written as "media.type.<id>.json" and field configs
// as "field.field.<id>.json".
package configsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

const (
	mediaTypePrefix   = "media.type."
	fieldConfigPrefix = "field.field."
	fileSuffix        = ".json"
)

// ErrNotFound is returned by stores for missing entries.
var ErrNotFound = errors.New("config entry not found")

// Store holds exported configuration entries by name.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Result summarizes an export or import.
type Result struct {
	MediaTypes   int
	FieldConfigs int
	Skipped      []string
}

// Export writes every media type and field config of the service to the store.
func Export(ctx context.Context, svc simplemedia.Service, store Store) (*Result, error) {
	result := &Result{}

	types, err := svc.ListMediaTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media types: %w", err)
	}
	for _, t := range types {
		if err := writeJSON(ctx, store, mediaTypePrefix+t.ID+fileSuffix, t); err != nil {
			return nil, err
		}
		result.MediaTypes++
	}

	fields, err := svc.ListFieldConfigs(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("list field configs: %w", err)
	}
	for _, f := range fields {
		if err := writeJSON(ctx, store, fieldConfigPrefix+f.ID+fileSuffix, f); err != nil {
			return nil, err
		}
		result.FieldConfigs++
	}

	slog.Info("Configuration exported", "media_types", result.MediaTypes, "field_configs", result.FieldConfigs)
	return result, nil
}

// Import creates the media types and field configs found in the store.
// Entries that already exist are skipped. Media types are imported first so
// that fields of new bundles resolve.
func Import(ctx context.Context, svc simplemedia.Service, store Store) (*Result, error) {
	names, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list config entries: %w", err)
	}
	sort.Strings(names)

	result := &Result{}
	for _, name := range names {
		if !strings.HasPrefix(name, mediaTypePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		var t simplemedia.MediaType
		if err := readJSON(ctx, store, name, &t); err != nil {
			return nil, err
		}
		_, err := svc.CreateMediaType(ctx, simplemedia.CreateMediaTypeRequest{
			ID:           t.ID,
			Label:        t.Label,
			Description:  t.Description,
			SourcePlugin: t.Source.PluginID(),
			SourceField:  t.Source.SourceFieldName(),
		})
		if errors.Is(err, simplemedia.ErrMediaTypeExists) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
		result.MediaTypes++
	}

	for _, name := range names {
		if !strings.HasPrefix(name, fieldConfigPrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		var f simplemedia.FieldConfig
		if err := readJSON(ctx, store, name, &f); err != nil {
			return nil, err
		}
		_, err := svc.CreateFieldConfig(ctx, simplemedia.CreateFieldConfigRequest{
			EntityType: f.TargetEntityType,
			Bundle:     f.TargetBundle,
			FieldName:  f.FieldName,
			FieldType:  f.FieldType,
			Label:      f.Label,
			Settings:   f.Settings,
		})
		if errors.Is(err, simplemedia.ErrFieldConfigExists) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
		result.FieldConfigs++
	}

	slog.Info("Configuration imported", "media_types", result.MediaTypes, "field_configs", result.FieldConfigs, "skipped", len(result.Skipped))
	return result, nil
}

func writeJSON(ctx context.Context, store Store, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := store.Write(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func readJSON(ctx context.Context, store Store, name string, v interface{}) error {
	data, err := store.Read(ctx, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
