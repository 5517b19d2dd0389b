package simplemedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	text, ok := Help(RouteHelpPage)
	require.True(t, ok)
	assert.Contains(t, text, "source field")

	text, ok = Help(RouteMediaTypesAdd)
	require.True(t, ok)
	assert.Contains(t, text, SourceRemoteVideo)

	_, ok = Help("entity.node.collection")
	assert.False(t, ok)
}

func TestThemeHooks(t *testing.T) {
	names := map[string]bool{}
	for _, hook := range ThemeHooks() {
		names[hook.Name] = true
	}
	assert.True(t, names["media"])
	assert.True(t, names["media_reference_help"])
	assert.True(t, names["media_oembed_iframe"])
}

func TestBuildReferenceHelp(t *testing.T) {
	types := []*MediaType{
		{ID: "video", Label: "Video", Source: VideoFile{}},
		{ID: "image", Label: "Image", Source: Image{}},
		{ID: "document", Label: "Document", Source: Document{}},
	}
	field := &FieldConfig{
		ID:        "node.article.field_media",
		FieldType: FieldTypeEntityReference,
		Settings:  FieldSettings{TargetType: MediaEntityType, TargetBundles: []string{"video", "image", "removed"}},
	}

	t.Run("restricted bundles", func(t *testing.T) {
		editor := Actor{ID: "editor", Permissions: []string{CreateMediaPermission("image")}}
		help, ok := BuildReferenceHelp(field, types, editor)
		require.True(t, ok)
		assert.Equal(t, "Allowed media types: Image, Video", help.Description)
		require.Len(t, help.Types, 2)
		assert.Equal(t, "/media/add/image", help.Types[0].AddURL)
		assert.Empty(t, help.Types[1].AddURL)
		assert.Empty(t, help.OverviewURL)
	})

	t.Run("all bundles for administrators", func(t *testing.T) {
		open := *field
		open.Settings.TargetBundles = nil
		admin := Actor{ID: "admin", Permissions: []string{PermissionAdministerMediaTypes}}
		help, ok := BuildReferenceHelp(&open, types, admin)
		require.True(t, ok)
		assert.Len(t, help.Types, 3)
		assert.Equal(t, "/admin/structure/media", help.OverviewURL)
	})

	t.Run("not a media reference", func(t *testing.T) {
		other := &FieldConfig{ID: "node.article.field_tags", FieldType: FieldTypeEntityReference, Settings: FieldSettings{TargetType: "taxonomy_term"}}
		_, ok := BuildReferenceHelp(other, types, AnonymousActor)
		assert.False(t, ok)
	})
}
