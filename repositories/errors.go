package repositories

import "errors"

var (
	// ErrNotFound is returned when no document matches the given id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrVersionConflict is returned when a document changed since it was read.
	ErrVersionConflict = errors.New("document was modified concurrently")
)
