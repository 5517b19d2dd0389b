package configsync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/configsync"
	"github.com/tendant/simple-media/pkg/simplemedia/configsync/memory"
	memrepo "github.com/tendant/simple-media/pkg/simplemedia/repo/memory"
)

func newService(t *testing.T) simplemedia.Service {
	t.Helper()
	svc, err := simplemedia.New(simplemedia.WithRepository(memrepo.New()))
	require.NoError(t, err)
	return svc
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newService(t)

	for _, req := range simplemedia.DefaultMediaTypes() {
		_, err := source.CreateMediaType(ctx, req)
		require.NoError(t, err)
	}
	_, err := source.CreateFieldConfig(ctx, simplemedia.CreateFieldConfigRequest{
		EntityType: "node",
		Bundle:     "article",
		FieldName:  "field_media",
		FieldType:  simplemedia.FieldTypeEntityReference,
		Label:      "Media",
		Settings:   simplemedia.FieldSettings{TargetType: simplemedia.MediaEntityType, TargetBundles: []string{"image"}},
	})
	require.NoError(t, err)

	store := memory.New()
	exported, err := configsync.Export(ctx, source, store)
	require.NoError(t, err)
	assert.Equal(t, 5, exported.MediaTypes)
	assert.Equal(t, 6, exported.FieldConfigs)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "media.type.image.json")
	assert.Contains(t, names, "field.field.media.image.field_media_image.json")
	assert.Contains(t, names, "field.field.node.article.field_media.json")

	target := newService(t)
	imported, err := configsync.Import(ctx, target, store)
	require.NoError(t, err)
	assert.Equal(t, 5, imported.MediaTypes)
	// Source fields come with their media type.
	assert.Equal(t, 1, imported.FieldConfigs)
	assert.Len(t, imported.Skipped, 5)

	mediaType, err := target.GetMediaType(ctx, "remote_video")
	require.NoError(t, err)
	assert.Equal(t, simplemedia.SourceRemoteVideo, mediaType.Source.PluginID())
	assert.Equal(t, "Remote video", mediaType.Label)

	field, err := target.GetFieldConfig(ctx, "node.article.field_media")
	require.NoError(t, err)
	assert.Equal(t, []string{"image"}, field.Settings.TargetBundles)
	assert.True(t, field.ReferencesMedia())
}

func TestImport_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.CreateMediaType(ctx, simplemedia.CreateMediaTypeRequest{ID: "image", Label: "Image", SourcePlugin: simplemedia.SourceImage})
	require.NoError(t, err)

	store := memory.New()
	_, err = configsync.Export(ctx, svc, store)
	require.NoError(t, err)

	result, err := configsync.Import(ctx, svc, store)
	require.NoError(t, err)
	assert.Zero(t, result.MediaTypes)
	assert.Zero(t, result.FieldConfigs)
	assert.ElementsMatch(t, []string{"media.type.image.json", "field.field.media.image.field_media_image.json"}, result.Skipped)
}

func TestImport_IgnoresUnrelatedEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Write(ctx, "system.site.json", []byte(`{"name":"site"}`)))

	result, err := configsync.Import(ctx, newService(t), store)
	require.NoError(t, err)
	assert.Zero(t, result.MediaTypes)
	assert.Empty(t, result.Skipped)
}

func TestImport_RejectsUnknownSource(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Write(ctx, "media.type.tweet.json", []byte(`{"id":"tweet","label":"Tweet","source":"oembed:tweet"}`)))

	_, err := configsync.Import(ctx, newService(t), store)
	assert.ErrorIs(t, err, simplemedia.ErrUnknownSource)
}

func TestMemoryStore_ReadMissing(t *testing.T) {
	_, err := memory.New().Read(context.Background(), "missing.json")
	assert.ErrorIs(t, err, configsync.ErrNotFound)
}
