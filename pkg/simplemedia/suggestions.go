package simplemedia

import (
	"strings"

	"github.com/google/uuid"
)

const themeHookMedia = "media"

// SuggestTemplates returns the template suggestions for rendering a media
// item in a view mode, from most general to most specific. Dots in the view
// mode are replaced with underscores.
func SuggestTemplates(item *MediaItem, viewMode string) []string {
	vm := strings.ReplaceAll(viewMode, ".", "_")
	return []string{
		themeHookMedia + "__" + vm,
		themeHookMedia + "__" + item.Bundle,
		themeHookMedia + "__" + item.Bundle + "__" + vm,
	}
}

// MediaVariables are the template variables of the media theme hook.
type MediaVariables struct {
	Name        string   `json:"name"`
	Bundle      string   `json:"bundle"`
	ViewMode    string   `json:"view_mode"`
	URL         string   `json:"url"`
	Published   bool     `json:"published"`
	Suggestions []string `json:"suggestions"`
}

// PreprocessMedia builds the template variables for a media item.
func PreprocessMedia(item *MediaItem, viewMode string) MediaVariables {
	return MediaVariables{
		Name:        item.Label,
		Bundle:      item.Bundle,
		ViewMode:    viewMode,
		URL:         MediaURL(item.ID),
		Published:   item.Published,
		Suggestions: SuggestTemplates(item, viewMode),
	}
}

// MediaURL returns the canonical path of a media item.
func MediaURL(id uuid.UUID) string {
	return "/media/" + id.String()
}
