package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/repo/memory"
)

func TestMemoryRepository_MediaTypeOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	mediaType := &simplemedia.MediaType{
		ID:     "image",
		Label:  "Image",
		Source: simplemedia.Image{},
	}

	t.Run("Create", func(t *testing.T) {
		require.NoError(t, repo.CreateMediaType(ctx, mediaType))
		assert.Equal(t, simplemedia.ErrMediaTypeExists, repo.CreateMediaType(ctx, mediaType))
	})

	t.Run("Lookup returns a copy", func(t *testing.T) {
		got, err := repo.LookupMediaType(ctx, "image")
		require.NoError(t, err)
		got.Label = "Changed"

		again, err := repo.LookupMediaType(ctx, "image")
		require.NoError(t, err)
		assert.Equal(t, "Image", again.Label)
	})

	t.Run("Lookup_NotFound", func(t *testing.T) {
		got, err := repo.LookupMediaType(ctx, "video")
		assert.Nil(t, got)
		assert.Equal(t, simplemedia.ErrMediaTypeNotFound, err)
	})

	t.Run("List sorted by ID", func(t *testing.T) {
		require.NoError(t, repo.CreateMediaType(ctx, &simplemedia.MediaType{ID: "document", Source: simplemedia.Document{}}))
		list, err := repo.ListMediaTypes(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "document", list[0].ID)
		assert.Equal(t, "image", list[1].ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteMediaType(ctx, "document"))
		assert.Equal(t, simplemedia.ErrMediaTypeNotFound, repo.DeleteMediaType(ctx, "document"))
	})

	t.Run("Create without source", func(t *testing.T) {
		err := repo.CreateMediaType(ctx, &simplemedia.MediaType{ID: "nosource"})
		assert.Equal(t, simplemedia.ErrMissingSource, err)
		_, err = repo.LookupMediaType(ctx, "nosource")
		assert.Equal(t, simplemedia.ErrMediaTypeNotFound, err)
	})
}

func TestMemoryRepository_DeleteMediaTypeWithFields(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	require.NoError(t, repo.CreateMediaType(ctx, &simplemedia.MediaType{ID: "image", Source: simplemedia.Image{}}))
	require.NoError(t, repo.CreateMediaType(ctx, &simplemedia.MediaType{ID: "document", Source: simplemedia.Document{}}))
	for _, f := range []*simplemedia.FieldConfig{
		{ID: "media.image.field_media_image", TargetEntityType: "media", TargetBundle: "image", FieldName: "field_media_image", FieldType: "image"},
		{ID: "media.image.field_caption", TargetEntityType: "media", TargetBundle: "image", FieldName: "field_caption", FieldType: "string"},
		{ID: "media.document.field_media_document", TargetEntityType: "media", TargetBundle: "document", FieldName: "field_media_document", FieldType: "file"},
		{ID: "node.image.field_media", TargetEntityType: "node", TargetBundle: "image", FieldName: "field_media", FieldType: "entity_reference"},
	} {
		require.NoError(t, repo.CreateFieldConfig(ctx, f))
	}
	item := &simplemedia.MediaItem{ID: uuid.New(), Bundle: "image", Label: "Photo", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateMediaItem(ctx, item))

	t.Run("in use leaves everything", func(t *testing.T) {
		assert.Equal(t, simplemedia.ErrMediaTypeInUse, repo.DeleteMediaType(ctx, "image"))
		_, err := repo.LookupMediaType(ctx, "image")
		assert.NoError(t, err)
		list, err := repo.ListFieldConfigs(ctx, "media", "image")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("removes the bundle's media fields only", func(t *testing.T) {
		require.NoError(t, repo.DeleteMediaItem(ctx, item.ID))
		require.NoError(t, repo.DeleteMediaType(ctx, "image"))

		list, err := repo.ListFieldConfigs(ctx, "media", "image")
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = repo.ListFieldConfigs(ctx, "media", "document")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = repo.GetFieldConfig(ctx, "node.image.field_media")
		assert.NoError(t, err)
	})
}

func TestMemoryRepository_FieldConfigOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	fields := []*simplemedia.FieldConfig{
		{ID: "media.image.field_media_image", TargetEntityType: "media", TargetBundle: "image", FieldName: "field_media_image", FieldType: "image"},
		{ID: "media.image.field_caption", TargetEntityType: "media", TargetBundle: "image", FieldName: "field_caption", FieldType: "string"},
		{ID: "node.article.field_media", TargetEntityType: "node", TargetBundle: "article", FieldName: "field_media", FieldType: "entity_reference",
			Settings: simplemedia.FieldSettings{TargetType: "media", TargetBundles: []string{"image"}}},
	}
	for _, f := range fields {
		require.NoError(t, repo.CreateFieldConfig(ctx, f))
	}
	assert.Equal(t, simplemedia.ErrFieldConfigExists, repo.CreateFieldConfig(ctx, fields[0]))

	t.Run("List by bundle", func(t *testing.T) {
		list, err := repo.ListFieldConfigs(ctx, "media", "image")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "media.image.field_caption", list[0].ID)
	})

	t.Run("Settings are copied", func(t *testing.T) {
		got, err := repo.GetFieldConfig(ctx, "node.article.field_media")
		require.NoError(t, err)
		got.Settings.TargetBundles[0] = "video"

		again, err := repo.GetFieldConfig(ctx, "node.article.field_media")
		require.NoError(t, err)
		assert.Equal(t, []string{"image"}, again.Settings.TargetBundles)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteFieldConfig(ctx, "media.image.field_caption"))
		_, err := repo.GetFieldConfig(ctx, "media.image.field_caption")
		assert.Equal(t, simplemedia.ErrFieldConfigNotFound, err)
	})
}

func TestMemoryRepository_MediaItemOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	older := &simplemedia.MediaItem{ID: uuid.New(), Bundle: "image", Label: "Older", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &simplemedia.MediaItem{ID: uuid.New(), Bundle: "image", Label: "Newer", CreatedAt: time.Now()}
	video := &simplemedia.MediaItem{ID: uuid.New(), Bundle: "video", Label: "Clip", CreatedAt: time.Now()}
	for _, item := range []*simplemedia.MediaItem{older, newer, video} {
		require.NoError(t, repo.CreateMediaItem(ctx, item))
	}

	list, err := repo.ListMediaItems(ctx, "image")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Label)

	count, err := repo.CountMediaItems(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, repo.DeleteMediaItem(ctx, video.ID))
	_, err = repo.GetMediaItem(ctx, video.ID)
	assert.Equal(t, simplemedia.ErrMediaItemNotFound, err)
	assert.Equal(t, simplemedia.ErrMediaItemNotFound, repo.DeleteMediaItem(ctx, video.ID))
}
