package sanitize

import "errors"

// Package-specific errors
var (
	// ErrNotPointer is returned by SanitizeStruct when the value is not a
	// non-nil pointer.
	ErrNotPointer = errors.New("sanitize: value must be a non-nil pointer")

	// ErrNotStruct is returned by SanitizeStruct when the pointer does not
	// point to a struct.
	ErrNotStruct = errors.New("sanitize: value must point to a struct")

	// ErrUnexportedField is returned when a sanitize tag is placed on an
	// unexported field, which reflection cannot write back to.
	ErrUnexportedField = errors.New("sanitize: tag on unexported field")

	// ErrInvalidTag is returned when a sanitize tag names an unknown
	// strategy or carries a malformed option.
	ErrInvalidTag = errors.New("sanitize: invalid tag")
)
