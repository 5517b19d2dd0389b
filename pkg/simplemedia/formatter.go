package simplemedia

// FieldCapability is something a field type can do.
type FieldCapability string

const (
	CapabilityEntityReference FieldCapability = "entity_reference"
	CapabilityFile            FieldCapability = "file"
)

// FieldTypeCapabilities is the capability set of a field type.
type FieldTypeCapabilities []FieldCapability

// Has reports whether the capability is present.
func (c FieldTypeCapabilities) Has(capability FieldCapability) bool {
	for _, v := range c {
		if v == capability {
			return true
		}
	}
	return false
}

// FormatterRenderedEntity renders referenced entities through their view builder.
const FormatterRenderedEntity = "entity_reference_entity_view"

// DisplayOptions selects the widget or formatter of a display.
type DisplayOptions struct {
	Widget    string `json:"widget,omitempty"`
	Formatter string `json:"formatter,omitempty"`
}

// PreconfiguredOption is one preconfigured way of adding a field.
type PreconfiguredOption struct {
	Label       string         `json:"label"`
	Category    string         `json:"category"`
	TargetType  string         `json:"target_type"`
	FormDisplay DisplayOptions `json:"form_display"`
	ViewDisplay DisplayOptions `json:"view_display"`
}

// PreconfiguredOptions maps option keys, usually target entity types, to options.
type PreconfiguredOptions map[string]*PreconfiguredOption

// AdjustDefaultFormatter makes media reference fields render the referenced
// media by default. It only applies to entity reference field types.
func AdjustDefaultFormatter(options PreconfiguredOptions, capabilities FieldTypeCapabilities) {
	if !capabilities.Has(CapabilityEntityReference) {
		return
	}
	if opt, ok := options[MediaEntityType]; ok && opt != nil {
		opt.ViewDisplay.Formatter = FormatterRenderedEntity
	}
}

// PreconfiguredOptionsFor returns the preconfigured options offered for a
// field type, already adjusted.
func PreconfiguredOptionsFor(capabilities FieldTypeCapabilities) PreconfiguredOptions {
	options := PreconfiguredOptions{}
	if !capabilities.Has(CapabilityEntityReference) {
		return options
	}
	options[MediaEntityType] = &PreconfiguredOption{
		Label:       "Media",
		Category:    "Reference",
		TargetType:  MediaEntityType,
		FormDisplay: DisplayOptions{Widget: "media_library_widget"},
		ViewDisplay: DisplayOptions{Formatter: "entity_reference_label"},
	}
	AdjustDefaultFormatter(options, capabilities)
	return options
}
