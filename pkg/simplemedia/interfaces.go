package simplemedia

import (
	"context"

	"github.com/google/uuid"
)

// TypeRegistry resolves media types by ID. Implementations return
// ErrMediaTypeNotFound when the type does not exist.
type TypeRegistry interface {
	LookupMediaType(ctx context.Context, id string) (*MediaType, error)
}

// TypeRegistryFunc adapts a function to a TypeRegistry.
type TypeRegistryFunc func(ctx context.Context, id string) (*MediaType, error)

func (f TypeRegistryFunc) LookupMediaType(ctx context.Context, id string) (*MediaType, error) {
	return f(ctx, id)
}

// Repository defines the interface for media persistence
type Repository interface {
	TypeRegistry

	// Media type operations
	CreateMediaType(ctx context.Context, mediaType *MediaType) error
	ListMediaTypes(ctx context.Context) ([]*MediaType, error)
	// DeleteMediaType atomically removes the type together with its media
	// field configs. It returns ErrMediaTypeInUse while media items of the
	// type exist and leaves everything in place on failure.
	DeleteMediaType(ctx context.Context, id string) error

	// Field config operations
	CreateFieldConfig(ctx context.Context, field *FieldConfig) error
	GetFieldConfig(ctx context.Context, id string) (*FieldConfig, error)
	// ListFieldConfigs lists fields of an entity type; an empty bundle lists all bundles
	ListFieldConfigs(ctx context.Context, entityType, bundle string) ([]*FieldConfig, error)
	DeleteFieldConfig(ctx context.Context, id string) error

	// Media item operations
	CreateMediaItem(ctx context.Context, item *MediaItem) error
	GetMediaItem(ctx context.Context, id uuid.UUID) (*MediaItem, error)
	// ListMediaItems lists items of a bundle; an empty bundle lists all items
	ListMediaItems(ctx context.Context, bundle string) ([]*MediaItem, error)
	CountMediaItems(ctx context.Context, bundle string) (int, error)
	DeleteMediaItem(ctx context.Context, id uuid.UUID) error
}

// StaticRegistry is an immutable TypeRegistry snapshot.
type StaticRegistry struct {
	types map[string]*MediaType
}

// NewStaticRegistry creates a registry snapshot of the given media types.
// Every type must have a source.
func NewStaticRegistry(types ...*MediaType) (*StaticRegistry, error) {
	r := &StaticRegistry{types: make(map[string]*MediaType, len(types))}
	for _, t := range types {
		if t.Source == nil {
			return nil, &MediaTypeError{TypeID: t.ID, Op: "register", Err: ErrMissingSource}
		}
		copied := *t
		r.types[t.ID] = &copied
	}
	return r, nil
}

func (r *StaticRegistry) LookupMediaType(ctx context.Context, id string) (*MediaType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, ErrMediaTypeNotFound
	}
	copied := *t
	return &copied, nil
}
