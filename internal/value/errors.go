package value

import "errors"

// Sentinel errors for path resolution. Callers match them with errors.Is.
var (
	// ErrKeyNotFound is returned when a mapping has no entry for a segment.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange is returned when a sequence position does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTypeMismatch is returned when a node is not the container an
	// operation requires.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidPath is returned for empty paths where a final segment is
	// required, and for segments that are neither strings nor integers.
	ErrInvalidPath = errors.New("invalid path")
)
