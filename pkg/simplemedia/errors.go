package simplemedia

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMediaTypeNotFound indicates a media type was not found
	ErrMediaTypeNotFound = errors.New("media type not found")

	// ErrFieldConfigNotFound indicates a field config was not found
	ErrFieldConfigNotFound = errors.New("field config not found")

	// ErrMediaItemNotFound indicates a media item was not found
	ErrMediaItemNotFound = errors.New("media item not found")

	// ErrMediaTypeExists indicates a media type with the same ID exists
	ErrMediaTypeExists = errors.New("media type already exists")

	// ErrFieldConfigExists indicates a field config with the same ID exists
	ErrFieldConfigExists = errors.New("field config already exists")

	// ErrMediaTypeInUse indicates a media type still has media items
	ErrMediaTypeInUse = errors.New("media type is in use")

	// ErrUnknownSource indicates an unregistered source plugin ID
	ErrUnknownSource = errors.New("unknown media source")

	// ErrMissingSource indicates a media type without a source
	ErrMissingSource = errors.New("media type has no source")

	// ErrInvalidMachineName indicates an ID that is not a valid machine name
	ErrInvalidMachineName = errors.New("invalid machine name")

	// ErrConfigurationIntegrity indicates a field config references a
	// media type that cannot be resolved
	ErrConfigurationIntegrity = errors.New("configuration integrity fault")

	// ErrAccessDenied indicates the combined access result did not allow the operation
	ErrAccessDenied = errors.New("access denied")
)

// IntegrityError reports a field config whose media bundle cannot be resolved.
// It matches both ErrConfigurationIntegrity and the underlying lookup error.
type IntegrityError struct {
	FieldID string
	Bundle  string
	Err     error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("field %s references unresolvable media type %q: %v", e.FieldID, e.Bundle, e.Err)
}

func (e *IntegrityError) Unwrap() []error {
	return []error{ErrConfigurationIntegrity, e.Err}
}

// AccessError is returned when an operation is refused by the access policies.
type AccessError struct {
	Op       Operation
	Resource string
	Reason   string
}

func (e *AccessError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s on %s: access denied", e.Op, e.Resource)
	}
	return fmt.Sprintf("%s on %s: access denied: %s", e.Op, e.Resource, e.Reason)
}

func (e *AccessError) Unwrap() error {
	return ErrAccessDenied
}

// MediaTypeError represents an error related to media type operations
type MediaTypeError struct {
	TypeID string
	Op     string
	Err    error
}

func (e *MediaTypeError) Error() string {
	return fmt.Sprintf("media type operation %s failed for %s: %v", e.Op, e.TypeID, e.Err)
}

func (e *MediaTypeError) Unwrap() error {
	return e.Err
}

// FieldConfigError represents an error related to field config operations
type FieldConfigError struct {
	FieldID string
	Op      string
	Err     error
}

func (e *FieldConfigError) Error() string {
	return fmt.Sprintf("field config operation %s failed for %s: %v", e.Op, e.FieldID, e.Err)
}

func (e *FieldConfigError) Unwrap() error {
	return e.Err
}
