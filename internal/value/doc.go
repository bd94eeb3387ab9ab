// Package value provides the in-memory document tree for pathstore.
//
// A document is a tree of canonical node types:
//   - nil, bool, string
//   - int64 for integral numbers, float64 for everything else
//   - []any for sequences
//   - map[string]any for mappings
//
// Every value entering a document goes through Normalize, so the tree never
// holds a type the codecs cannot encode and never aliases caller memory.
//
// Paths are slices of segments. A string segment selects a mapping key and an
// integer segment selects a sequence position (negative positions count from
// the end). Path walking is an explicit loop over segments.
//
// This package imports nothing internal. The store, codec and backend
// packages all build on it.
package value
