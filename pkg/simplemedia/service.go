package simplemedia

import (
	"context"

	"github.com/google/uuid"
)

// Service is the main interface of the library
type Service interface {
	// Media type operations
	CreateMediaType(ctx context.Context, req CreateMediaTypeRequest) (*MediaType, error)
	GetMediaType(ctx context.Context, id string) (*MediaType, error)
	ListMediaTypes(ctx context.Context) ([]*MediaType, error)
	DeleteMediaType(ctx context.Context, id string) error

	// Field config operations
	CreateFieldConfig(ctx context.Context, req CreateFieldConfigRequest) (*FieldConfig, error)
	GetFieldConfig(ctx context.Context, id string) (*FieldConfig, error)
	ListFieldConfigs(ctx context.Context, entityType, bundle string) ([]*FieldConfig, error)
	CheckFieldConfigAccess(ctx context.Context, id string, op Operation, actor Actor) (AccessResult, error)
	DeleteFieldConfig(ctx context.Context, id string, actor Actor) error
	ReferenceFieldHelp(ctx context.Context, fieldID string, actor Actor) (*ReferenceHelp, error)

	// Media item operations
	CreateMediaItem(ctx context.Context, req CreateMediaItemRequest) (*MediaItem, error)
	GetMediaItem(ctx context.Context, id uuid.UUID) (*MediaItem, error)
	ListMediaItems(ctx context.Context, bundle string) ([]*MediaItem, error)
	DeleteMediaItem(ctx context.Context, id uuid.UUID) error

	// Presentation
	SuggestTemplates(ctx context.Context, itemID uuid.UUID, viewMode string) ([]string, error)
	PreprocessMedia(ctx context.Context, itemID uuid.UUID, viewMode string) (*MediaVariables, error)
}
