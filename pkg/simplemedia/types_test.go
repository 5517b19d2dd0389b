package simplemedia

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		plugin    string
		field     string
		wantField string
		wantType  string
	}{
		{SourceImage, "", "field_media_image", "image"},
		{SourceRemoteVideo, "", "field_media_oembed_video", "string"},
		{SourceVideoFile, "", "field_media_video_file", "file"},
		{SourceAudioFile, "", "field_media_audio_file", "file"},
		{SourceDocument, "", "field_media_document", "file"},
		{SourceImage, "field_photo", "field_photo", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.plugin+"/"+tt.wantField, func(t *testing.T) {
			source, err := NewSource(tt.plugin, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.plugin, source.PluginID())
			assert.Equal(t, tt.wantField, source.SourceFieldName())
			assert.Equal(t, tt.wantType, source.FieldType())
		})
	}

	_, err := NewSource("twitter", "")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestMediaType_SourceFieldID(t *testing.T) {
	mediaType := &MediaType{ID: "image", Source: Image{}}
	assert.Equal(t, "media.image.field_media_image", mediaType.SourceFieldID())
}

func TestMediaType_JSONKeepsSource(t *testing.T) {
	data, err := json.Marshal(MediaType{ID: "clip", Label: "Clip", Source: RemoteVideo{Field: "field_url"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source":"oembed:video"`)

	var decoded MediaType
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "media.clip.field_url", decoded.SourceFieldID())

	err = json.Unmarshal([]byte(`{"id":"x","source":"unknown"}`), &decoded)
	assert.ErrorIs(t, err, ErrUnknownSource)
}
