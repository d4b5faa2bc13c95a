package ginternals

import "errors"

var (
	// ErrObjectNotFound is an error corresponding to an object not being
	// found in the odb
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectTooLarge is returned when trying to store an object
	// bigger than the configured limit
	ErrObjectTooLarge = errors.New("object too large")
)
