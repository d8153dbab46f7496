package safelist

import "errors"

// Package-specific errors
var (
	// ErrEmptyName is returned when registering a safelist under an empty name.
	ErrEmptyName = errors.New("safelist name cannot be empty")

	// ErrNilSafelist is returned when registering a nil safelist.
	ErrNilSafelist = errors.New("safelist cannot be nil")
)
