package simplemedia

import (
	"fmt"
	"sort"
)

// Source plugin identifiers.
const (
	SourceImage       = "image"
	SourceRemoteVideo = "oembed:video"
	SourceVideoFile   = "video_file"
	SourceAudioFile   = "audio_file"
	SourceDocument    = "file"
)

// Source is the pluggable metadata extractor a media type is bound to.
// Every source owns exactly one designated field on the media type.
type Source interface {
	// PluginID returns the identifier of the source plugin
	PluginID() string

	// SourceFieldName returns the machine name of the field the source populates
	SourceFieldName() string

	// FieldType returns the field type used when the source field is created
	FieldType() string
}

// Image sources store an image file in the source field.
type Image struct {
	// Field overrides the default source field name
	Field string
}

func (s Image) PluginID() string        { return SourceImage }
func (s Image) SourceFieldName() string { return fieldOrDefault(s.Field, "field_media_image") }
func (s Image) FieldType() string       { return "image" }

// RemoteVideo sources store an oEmbed URL in the source field.
type RemoteVideo struct {
	Field string
	// Providers lists the oEmbed providers accepted by the source
	Providers []string
}

func (s RemoteVideo) PluginID() string { return SourceRemoteVideo }
func (s RemoteVideo) SourceFieldName() string {
	return fieldOrDefault(s.Field, "field_media_oembed_video")
}
func (s RemoteVideo) FieldType() string { return "string" }

// VideoFile sources store a locally hosted video file.
type VideoFile struct {
	Field string
}

func (s VideoFile) PluginID() string { return SourceVideoFile }
func (s VideoFile) SourceFieldName() string {
	return fieldOrDefault(s.Field, "field_media_video_file")
}
func (s VideoFile) FieldType() string { return "file" }

// AudioFile sources store a locally hosted audio file.
type AudioFile struct {
	Field string
}

func (s AudioFile) PluginID() string { return SourceAudioFile }
func (s AudioFile) SourceFieldName() string {
	return fieldOrDefault(s.Field, "field_media_audio_file")
}
func (s AudioFile) FieldType() string { return "file" }

// Document sources store an arbitrary file.
type Document struct {
	Field string
}

func (s Document) PluginID() string { return SourceDocument }
func (s Document) SourceFieldName() string {
	return fieldOrDefault(s.Field, "field_media_document")
}
func (s Document) FieldType() string { return "file" }

func fieldOrDefault(field, def string) string {
	if field != "" {
		return field
	}
	return def
}

var sourceFactories = map[string]func(field string) Source{
	SourceImage:       func(f string) Source { return Image{Field: f} },
	SourceRemoteVideo: func(f string) Source { return RemoteVideo{Field: f, Providers: []string{"YouTube", "Vimeo"}} },
	SourceVideoFile:   func(f string) Source { return VideoFile{Field: f} },
	SourceAudioFile:   func(f string) Source { return AudioFile{Field: f} },
	SourceDocument:    func(f string) Source { return Document{Field: f} },
}

// NewSource builds the source for a plugin ID. An empty field selects the
// plugin's default source field name.
func NewSource(pluginID, field string) (Source, error) {
	factory, ok := sourceFactories[pluginID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, pluginID)
	}
	return factory(field), nil
}

// SourcePlugins returns the known source plugin IDs in sorted order.
func SourcePlugins() []string {
	ids := make([]string, 0, len(sourceFactories))
	for id := range sourceFactories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
