package simplemedia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var machineNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// service implements the Service interface
type service struct {
	repository Repository
	policies   []AccessPolicy
	hooks      *Hooks
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithAccessPolicies adds field config access policies evaluated after the
// built-in source field and permission policies.
func WithAccessPolicies(policies ...AccessPolicy) Option {
	return func(s *service) {
		s.policies = append(s.policies, policies...)
	}
}

// WithHooks sets the lifecycle hooks
func WithHooks(hooks *Hooks) Option {
	return func(s *service) {
		s.hooks = hooks
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) accessChecker() *AccessChecker {
	policies := append([]AccessPolicy{NewSourceFieldPolicy(s.repository), PermissionPolicy{}}, s.policies...)
	return NewAccessChecker(policies...)
}

// Media type operations

func (s *service) CreateMediaType(ctx context.Context, req CreateMediaTypeRequest) (*MediaType, error) {
	if !machineNamePattern.MatchString(req.ID) {
		return nil, &MediaTypeError{TypeID: req.ID, Op: "create", Err: ErrInvalidMachineName}
	}
	if req.SourceField != "" && !machineNamePattern.MatchString(req.SourceField) {
		return nil, &MediaTypeError{TypeID: req.ID, Op: "create", Err: ErrInvalidMachineName}
	}

	source, err := NewSource(req.SourcePlugin, req.SourceField)
	if err != nil {
		return nil, &MediaTypeError{TypeID: req.ID, Op: "create", Err: err}
	}

	label := req.Label
	if label == "" {
		label = req.ID
	}

	now := time.Now().UTC()
	mediaType := &MediaType{
		ID:          req.ID,
		Label:       label,
		Description: req.Description,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateMediaType(ctx, mediaType); err != nil {
		s.hooks.executeOnError(ctx, "create_media_type", err)
		return nil, &MediaTypeError{TypeID: req.ID, Op: "create", Err: err}
	}

	sourceField := &FieldConfig{
		ID:               mediaType.SourceFieldID(),
		TargetEntityType: MediaEntityType,
		TargetBundle:     mediaType.ID,
		FieldName:        source.SourceFieldName(),
		FieldType:        source.FieldType(),
		Label:            label,
		Settings:         FieldSettings{Required: true},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repository.CreateFieldConfig(ctx, sourceField); err != nil && !errors.Is(err, ErrFieldConfigExists) {
		s.hooks.executeOnError(ctx, "create_media_type", err)
		if rbErr := s.repository.DeleteMediaType(ctx, mediaType.ID); rbErr != nil {
			s.logger.Error("failed to roll back media type", "media_type", mediaType.ID, "err", rbErr)
			err = errors.Join(err, rbErr)
		}
		return nil, &MediaTypeError{TypeID: req.ID, Op: "create_source_field", Err: err}
	}

	if err := s.hooks.executeAfterMediaTypeCreate(ctx, mediaType); err != nil {
		s.logger.Warn("after media type create hook failed", "media_type", mediaType.ID, "err", err)
	}

	s.logger.Info("Media type created", "media_type", mediaType.ID, "source", source.PluginID(), "source_field", sourceField.ID)
	return mediaType, nil
}

func (s *service) GetMediaType(ctx context.Context, id string) (*MediaType, error) {
	return s.repository.LookupMediaType(ctx, id)
}

func (s *service) ListMediaTypes(ctx context.Context) ([]*MediaType, error) {
	return s.repository.ListMediaTypes(ctx)
}

func (s *service) DeleteMediaType(ctx context.Context, id string) error {
	if _, err := s.repository.LookupMediaType(ctx, id); err != nil {
		return &MediaTypeError{TypeID: id, Op: "delete", Err: err}
	}

	count, err := s.repository.CountMediaItems(ctx, id)
	if err != nil {
		return &MediaTypeError{TypeID: id, Op: "delete", Err: err}
	}
	if count > 0 {
		return &MediaTypeError{TypeID: id, Op: "delete", Err: fmt.Errorf("%w: %d media items", ErrMediaTypeInUse, count)}
	}

	// The repository drops the bundle's fields, source field included, in the same step.
	if err := s.repository.DeleteMediaType(ctx, id); err != nil {
		s.hooks.executeOnError(ctx, "delete_media_type", err)
		return &MediaTypeError{TypeID: id, Op: "delete", Err: err}
	}

	s.logger.Info("Media type deleted", "media_type", id)
	return nil
}

// Field config operations

func (s *service) CreateFieldConfig(ctx context.Context, req CreateFieldConfigRequest) (*FieldConfig, error) {
	id := FieldConfigID(req.EntityType, req.Bundle, req.FieldName)
	if req.EntityType == "" || req.Bundle == "" || !machineNamePattern.MatchString(req.FieldName) {
		return nil, &FieldConfigError{FieldID: id, Op: "create", Err: ErrInvalidMachineName}
	}
	if req.FieldType == "" {
		return nil, &FieldConfigError{FieldID: id, Op: "create", Err: errors.New("field type is required")}
	}

	if req.EntityType == MediaEntityType {
		if _, err := s.repository.LookupMediaType(ctx, req.Bundle); err != nil {
			return nil, &FieldConfigError{FieldID: id, Op: "create", Err: err}
		}
	}

	now := time.Now().UTC()
	field := &FieldConfig{
		ID:               id,
		TargetEntityType: req.EntityType,
		TargetBundle:     req.Bundle,
		FieldName:        req.FieldName,
		FieldType:        req.FieldType,
		Label:            req.Label,
		Settings:         req.Settings,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repository.CreateFieldConfig(ctx, field); err != nil {
		return nil, &FieldConfigError{FieldID: id, Op: "create", Err: err}
	}

	s.logger.Info("Field config created", "field", id, "type", req.FieldType)
	return field, nil
}

func (s *service) GetFieldConfig(ctx context.Context, id string) (*FieldConfig, error) {
	return s.repository.GetFieldConfig(ctx, id)
}

func (s *service) ListFieldConfigs(ctx context.Context, entityType, bundle string) ([]*FieldConfig, error) {
	return s.repository.ListFieldConfigs(ctx, entityType, bundle)
}

func (s *service) CheckFieldConfigAccess(ctx context.Context, id string, op Operation, actor Actor) (AccessResult, error) {
	field, err := s.repository.GetFieldConfig(ctx, id)
	if err != nil {
		return AccessResult{}, err
	}
	return s.accessChecker().Check(ctx, field, op, actor)
}

func (s *service) DeleteFieldConfig(ctx context.Context, id string, actor Actor) error {
	field, err := s.repository.GetFieldConfig(ctx, id)
	if err != nil {
		return &FieldConfigError{FieldID: id, Op: "delete", Err: err}
	}

	result, err := s.accessChecker().Check(ctx, field, OperationDelete, actor)
	if err != nil {
		s.logger.Error("Field access evaluation failed", "field", id, "actor", actor.ID, "err", err)
		s.hooks.executeOnError(ctx, "delete_field_config", err)
		return &FieldConfigError{FieldID: id, Op: "delete", Err: err}
	}
	if !result.IsAllowed() {
		s.logger.Warn("Field deletion refused", "field", id, "actor", actor.ID, "reason", result.Reason)
		return &AccessError{Op: OperationDelete, Resource: id, Reason: result.Reason}
	}

	if err := s.hooks.executeBeforeFieldConfigDelete(ctx, field, actor); err != nil {
		return &FieldConfigError{FieldID: id, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteFieldConfig(ctx, id); err != nil {
		return &FieldConfigError{FieldID: id, Op: "delete", Err: err}
	}

	s.logger.Info("Field config deleted", "field", id, "actor", actor.ID)
	return nil
}

func (s *service) ReferenceFieldHelp(ctx context.Context, fieldID string, actor Actor) (*ReferenceHelp, error) {
	field, err := s.repository.GetFieldConfig(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	types, err := s.repository.ListMediaTypes(ctx)
	if err != nil {
		return nil, err
	}
	help, ok := BuildReferenceHelp(field, types, actor)
	if !ok {
		return nil, &FieldConfigError{FieldID: fieldID, Op: "reference_help", Err: errors.New("field does not reference media")}
	}
	return help, nil
}

// Media item operations

func (s *service) CreateMediaItem(ctx context.Context, req CreateMediaItemRequest) (*MediaItem, error) {
	if _, err := s.repository.LookupMediaType(ctx, req.Bundle); err != nil {
		return nil, fmt.Errorf("media bundle %s: %w", req.Bundle, err)
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, errors.New("media label is required")
	}

	now := time.Now().UTC()
	item := &MediaItem{
		ID:        uuid.New(),
		Bundle:    req.Bundle,
		Label:     label,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateMediaItem(ctx, item); err != nil {
		s.hooks.executeOnError(ctx, "create_media_item", err)
		return nil, fmt.Errorf("create media item: %w", err)
	}

	s.logger.Info("Media item created", "media_id", item.ID.String(), "bundle", item.Bundle)
	return item, nil
}

func (s *service) GetMediaItem(ctx context.Context, id uuid.UUID) (*MediaItem, error) {
	return s.repository.GetMediaItem(ctx, id)
}

func (s *service) ListMediaItems(ctx context.Context, bundle string) ([]*MediaItem, error) {
	return s.repository.ListMediaItems(ctx, bundle)
}

func (s *service) DeleteMediaItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteMediaItem(ctx, id); err != nil {
		return fmt.Errorf("delete media item %s: %w", id, err)
	}
	if err := s.hooks.executeAfterMediaItemDelete(ctx, id); err != nil {
		s.logger.Warn("after media item delete hook failed", "media_id", id.String(), "err", err)
	}
	s.logger.Info("Media item deleted", "media_id", id.String())
	return nil
}

// Presentation

func (s *service) SuggestTemplates(ctx context.Context, itemID uuid.UUID, viewMode string) ([]string, error) {
	item, err := s.repository.GetMediaItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return SuggestTemplates(item, viewMode), nil
}

func (s *service) PreprocessMedia(ctx context.Context, itemID uuid.UUID, viewMode string) (*MediaVariables, error) {
	item, err := s.repository.GetMediaItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	vars := PreprocessMedia(item, viewMode)
	return &vars, nil
}
