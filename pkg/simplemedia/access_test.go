package simplemedia

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageRegistry(t *testing.T) *StaticRegistry {
	t.Helper()
	registry, err := NewStaticRegistry(
		&MediaType{ID: "image", Label: "Image", Source: Image{}},
		&MediaType{ID: "video", Label: "Video", Source: RemoteVideo{}},
		&MediaType{ID: "doc", Label: "Document", Source: Document{Field: "field_file"}},
	)
	require.NoError(t, err)
	return registry
}

func mediaField(bundle, fieldName string) *FieldConfig {
	return &FieldConfig{
		ID:               FieldConfigID(MediaEntityType, bundle, fieldName),
		TargetEntityType: MediaEntityType,
		TargetBundle:     bundle,
		FieldName:        fieldName,
	}
}

func TestSourceFieldPolicy(t *testing.T) {
	ctx := context.Background()
	policy := NewSourceFieldPolicy(imageRegistry(t))
	admin := Actor{ID: "admin", Permissions: []string{PermissionAdministerMediaFields}}

	tests := []struct {
		name  string
		field *FieldConfig
		op    Operation
		want  AccessKind
	}{
		{"image source field", mediaField("image", "field_media_image"), OperationDelete, AccessForbidden},
		{"image caption", mediaField("image", "field_caption"), OperationDelete, AccessNeutral},
		{"remote video source field", mediaField("video", "field_media_oembed_video"), OperationDelete, AccessForbidden},
		{"configured source field", mediaField("doc", "field_file"), OperationDelete, AccessForbidden},
		{"default name when overridden", mediaField("doc", "field_media_document"), OperationDelete, AccessNeutral},
		{"update of source field", mediaField("image", "field_media_image"), OperationUpdate, AccessNeutral},
		{"view of source field", mediaField("image", "field_media_image"), OperationView, AccessNeutral},
		{"non media entity", &FieldConfig{ID: "node.image.field_media_image", TargetEntityType: "node", TargetBundle: "image"}, OperationDelete, AccessNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := policy.CheckFieldConfigAccess(ctx, tt.field, tt.op, admin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Kind)
		})
	}
}

func TestCanDelete_Scenarios(t *testing.T) {
	ctx := context.Background()
	registry, err := NewStaticRegistry(&MediaType{ID: "image", Source: Image{}})
	require.NoError(t, err)

	source := &FieldConfig{ID: "media.image.field_media_image", TargetEntityType: "media", TargetBundle: "image"}
	result, err := CanDelete(ctx, registry, source, AnonymousActor)
	require.NoError(t, err)
	assert.True(t, result.IsForbidden())
	assert.Contains(t, result.Reason, "source field")

	caption := &FieldConfig{ID: "media.image.field_caption", TargetEntityType: "media", TargetBundle: "image"}
	result, err = CanDelete(ctx, registry, caption, AnonymousActor)
	require.NoError(t, err)
	assert.True(t, result.IsNeutral())
}

func TestSourceFieldPolicy_UnresolvableBundle(t *testing.T) {
	ctx := context.Background()
	policy := NewSourceFieldPolicy(imageRegistry(t))

	_, err := policy.CheckFieldConfigAccess(ctx, mediaField("gone", "field_media_image"), OperationDelete, AnonymousActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigurationIntegrity)
	assert.ErrorIs(t, err, ErrMediaTypeNotFound)

	var integrityErr *IntegrityError
	require.True(t, errors.As(err, &integrityErr))
	assert.Equal(t, "gone", integrityErr.Bundle)

	// Other operations never consult the registry.
	result, err := policy.CheckFieldConfigAccess(ctx, mediaField("gone", "field_media_image"), OperationUpdate, AnonymousActor)
	require.NoError(t, err)
	assert.True(t, result.IsNeutral())
}

func TestSourceFieldPolicy_RegistryFailure(t *testing.T) {
	boom := errors.New("connection refused")
	registry := TypeRegistryFunc(func(ctx context.Context, id string) (*MediaType, error) {
		return nil, boom
	})

	_, err := CanDelete(context.Background(), registry, mediaField("image", "field_caption"), AnonymousActor)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConfigurationIntegrity)
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name    string
		results []AccessResult
		want    AccessKind
	}{
		{"empty denies", nil, AccessForbidden},
		{"only neutral denies", []AccessResult{Neutral(), Neutral()}, AccessForbidden},
		{"allow", []AccessResult{Neutral(), Allowed()}, AccessAllowed},
		{"forbidden wins over allow", []AccessResult{Allowed(), Forbidden("protected")}, AccessForbidden},
		{"forbidden first", []AccessResult{Forbidden("protected"), Allowed()}, AccessForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.results...).Kind)
		})
	}

	assert.Equal(t, "protected", Combine(Allowed(), Forbidden("protected")).Reason)
}

func TestAccessChecker(t *testing.T) {
	ctx := context.Background()
	checker := NewAccessChecker(NewSourceFieldPolicy(imageRegistry(t)), PermissionPolicy{})
	admin := Actor{ID: "admin", Permissions: []string{PermissionAdministerMediaFields}}
	editor := Actor{ID: "editor", Permissions: []string{"create image media"}}

	result, err := checker.Check(ctx, mediaField("image", "field_caption"), OperationDelete, admin)
	require.NoError(t, err)
	assert.True(t, result.IsAllowed())

	result, err = checker.Check(ctx, mediaField("image", "field_media_image"), OperationDelete, admin)
	require.NoError(t, err)
	assert.True(t, result.IsForbidden())

	result, err = checker.Check(ctx, mediaField("image", "field_caption"), OperationDelete, editor)
	require.NoError(t, err)
	assert.True(t, result.IsForbidden())

	_, err = checker.Check(ctx, mediaField("gone", "field_caption"), OperationDelete, admin)
	assert.ErrorIs(t, err, ErrConfigurationIntegrity)
}

func TestNewStaticRegistry_RejectsMissingSource(t *testing.T) {
	registry, err := NewStaticRegistry(&MediaType{ID: "image", Source: Image{}}, &MediaType{ID: "broken"})
	assert.Nil(t, registry)
	assert.ErrorIs(t, err, ErrMissingSource)
}

func TestSourceFieldPolicy_TypeWithoutSource(t *testing.T) {
	registry := TypeRegistryFunc(func(ctx context.Context, id string) (*MediaType, error) {
		return &MediaType{ID: id}, nil
	})

	assert.NotPanics(t, func() {
		_, err := CanDelete(context.Background(), registry, mediaField("image", "field_media_image"), AnonymousActor)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfigurationIntegrity)
		assert.ErrorIs(t, err, ErrMissingSource)

		var integrityErr *IntegrityError
		require.True(t, errors.As(err, &integrityErr))
		assert.Equal(t, "image", integrityErr.Bundle)
	})
}
