// Package backend reads and writes the serialized form of a namespace.
//
// A namespace is an opaque name chosen by the caller. FileBackend treats it as
// a file path, SQLiteBackend as a row key, MemoryBackend as a map key. Every
// Write replaces the whole content; there is no incremental format.
package backend

import "errors"

// ErrNotFound is returned by Read when a namespace has never been written.
var ErrNotFound = errors.New("backend: namespace not found")

// Backend stores one byte blob per namespace.
type Backend interface {
	// Exists reports whether the namespace has content.
	Exists(name string) (bool, error)

	// Read returns the namespace's content.
	// Returns ErrNotFound if the namespace doesn't exist.
	Read(name string) ([]byte, error)

	// Write replaces the namespace's content.
	Write(name string, data []byte) error

	// Close releases resources held by the backend.
	Close() error
}

// Meta describes a write for backends that keep history columns.
type Meta struct {
	Revision string
	Seq      int64
	Digest   string
}

// MetaWriter is implemented by backends that record write metadata.
type MetaWriter interface {
	WriteMeta(name string, data []byte, meta Meta) error
}

// MetaReader is implemented by backends that can report the metadata of the
// last write.
type MetaReader interface {
	ReadMeta(name string) (Meta, error)
}

// ReadMeta returns the namespace's write metadata, or the zero Meta when b
// does not record any.
func ReadMeta(b Backend, name string) (Meta, error) {
	if mr, ok := b.(MetaReader); ok {
		return mr.ReadMeta(name)
	}
	return Meta{}, nil
}

// WriteWithMeta writes through MetaWriter when b supports it and falls back
// to a plain Write otherwise.
func WriteWithMeta(b Backend, name string, data []byte, meta Meta) error {
	if mw, ok := b.(MetaWriter); ok {
		return mw.WriteMeta(name, data, meta)
	}
	return b.Write(name, data)
}
