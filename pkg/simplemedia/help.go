package simplemedia

import (
	"sort"
	"strings"
)

// Help routes.
const (
	RouteHelpPage          = "help.page.media"
	RouteMediaTypes        = "entity.media_type.collection"
	RouteMediaTypesAdd     = "entity.media_type.add_form"
	RouteMediaCollection   = "entity.media.collection"
	mediaTypeCollectionURL = "/admin/structure/media"
)

var helpTexts = map[string]string{
	RouteHelpPage: "The Media module manages the creation, editing, deletion, settings, and display of media. " +
		"Items are typically images, documents, slideshows, YouTube videos, tweets, Instagram photos, etc. " +
		"Each media type is bound to exactly one source, which extracts metadata into the type's source field. " +
		"The source field cannot be deleted while the media type exists.",
	RouteMediaTypes: "This page provides a list of all media types on the site and allows you to manage the fields, " +
		"form and display settings for each.",
	RouteMediaCollection: "This page lists all media items. Use the filters to narrow the list by type or publishing status.",
}

// Help returns the help text shown on a route.
func Help(route string) (string, bool) {
	if route == RouteMediaTypesAdd {
		return "Every media type needs a source. Available sources: " + strings.Join(SourcePlugins(), ", ") +
			". The source cannot be changed after the media type has been created.", true
	}
	text, ok := helpTexts[route]
	return text, ok
}

// ThemeHook describes a template and the variables it receives.
type ThemeHook struct {
	Name      string   `json:"name"`
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
}

// ThemeHooks returns the theme hooks provided for media.
func ThemeHooks() []ThemeHook {
	return []ThemeHook{
		{Name: "media", Template: "media", Variables: []string{"name", "bundle", "view_mode", "url", "published"}},
		{Name: "media_reference_help", Template: "media-reference-help", Variables: []string{"description", "types", "overview_url"}},
		{Name: "media_oembed_iframe", Template: "media-oembed-iframe", Variables: []string{"resource", "media", "placeholder_token"}},
		{Name: "media_embed_error", Template: "media-embed-error", Variables: []string{"message", "attributes"}},
	}
}

// AllowedMediaType is a media type a reference field accepts.
type AllowedMediaType struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	AddURL string `json:"add_url,omitempty"`
}

// ReferenceHelp is the help shown next to a media reference field.
type ReferenceHelp struct {
	FieldID     string             `json:"field_id"`
	Description string             `json:"description"`
	Types       []AllowedMediaType `json:"types"`
	OverviewURL string             `json:"overview_url,omitempty"`
}

// BuildReferenceHelp builds the help for an entity reference field targeting
// media. It returns false for any other field. Target bundles that are not
// among the given types are skipped.
func BuildReferenceHelp(field *FieldConfig, types []*MediaType, actor Actor) (*ReferenceHelp, bool) {
	if !field.ReferencesMedia() {
		return nil, false
	}

	byID := make(map[string]*MediaType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}

	var allowed []*MediaType
	if len(field.Settings.TargetBundles) == 0 {
		allowed = append(allowed, types...)
	} else {
		for _, bundle := range field.Settings.TargetBundles {
			if t, ok := byID[bundle]; ok {
				allowed = append(allowed, t)
			}
		}
	}
	sort.Slice(allowed, func(i, j int) bool { return allowed[i].Label < allowed[j].Label })

	help := &ReferenceHelp{
		FieldID:     field.ID,
		Description: "Allowed media types: " + joinLabels(allowed),
		Types:       make([]AllowedMediaType, 0, len(allowed)),
	}
	for _, t := range allowed {
		entry := AllowedMediaType{ID: t.ID, Label: t.Label}
		if actor.HasPermission(CreateMediaPermission(t.ID)) {
			entry.AddURL = "/media/add/" + t.ID
		}
		help.Types = append(help.Types, entry)
	}
	if actor.HasPermission(PermissionAdministerMediaTypes) {
		help.OverviewURL = mediaTypeCollectionURL
	}
	return help, true
}

func joinLabels(types []*MediaType) string {
	if len(types) == 0 {
		return "none"
	}
	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = t.Label
	}
	return strings.Join(labels, ", ")
}
