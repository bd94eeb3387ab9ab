// Package store implements path-addressable persistent documents.
//
// A Registry hands out Handles. A Handle addresses one node of a document:
// the whole document (root handle) or a nested sub-tree reached by a
// sequence of keys (derived handle). Every handle exposes the same five
// operations, each taking an optional path relative to the handle's node:
//
//   - Get(path...)         read a node
//   - Set(v, path...)      assign at a mapping key or existing sequence index
//   - Delete(path...)      remove a mapping key or sequence index
//   - Append(v, path...)   append to a sequence
//   - Contains(v, path...) test key or element membership
//
// # Write-through
//
// Every mutation is persisted before it returns. The root handle owns the
// Document, which serializes the full tree through its codec and overwrites
// the backing content on each write. A mutation is applied to a copy of the
// tree first; if it fails, or the encode or write fails, the live tree and
// the backing content are both left untouched.
//
// # Delegation
//
// A derived handle holds no data. It rewrites each call into a call on its
// parent with its own key prefixed to the path:
//
//	derived.Get(p...) == parent.Get(append([]any{key}, p...)...)
//
// so all handles under one namespace read and write one shared tree.
//
// # Identity
//
// The Registry memoizes handles: per namespace one root, per handle one
// child per key. Resolving the same namespace and path twice returns the
// same Handle value. Entries are never evicted.
//
// Creating a derived handle whose key is missing from the parent inserts an
// empty mapping (or sequence, for list handles) at that key and persists it.
// A handle's kind is fixed the first time its path is resolved.
//
// # Concurrency
//
// Registries and handles are not safe for concurrent use. There is no
// locking and no cross-process coordination; two processes writing the same
// namespace will overwrite each other.
package store
