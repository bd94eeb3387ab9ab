package store

import (
	"errors"
	"fmt"

	"github.com/roach88/pathstore/internal/value"
)

// Path resolution errors, shared with package value so callers only need
// this package to match them.
var (
	ErrKeyNotFound     = value.ErrKeyNotFound
	ErrIndexOutOfRange = value.ErrIndexOutOfRange
	ErrTypeMismatch    = value.ErrTypeMismatch
	ErrInvalidPath     = value.ErrInvalidPath
)

var (
	// ErrCorruptStore is returned when a namespace's backing content exists
	// but cannot be decoded.
	ErrCorruptStore = errors.New("corrupt store")

	// ErrClosed is returned by every operation after Registry.Close.
	ErrClosed = errors.New("registry closed")
)

// OpError records the handle operation that failed and where.
type OpError struct {
	// Op is the operation: resolve, get, set, delete, append or contains.
	Op string

	// Namespace identifies the document.
	Namespace string

	// Path is the absolute path from the document root.
	Path []any

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Namespace, value.FormatPath(e.Path), e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}
