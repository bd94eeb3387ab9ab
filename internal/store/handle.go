package store

import (
	"fmt"

	"github.com/roach88/pathstore/internal/value"
)

// Handle addresses one node of a namespace's document. Every operation takes
// an optional path relative to that node; an empty path means the node
// itself.
type Handle interface {
	// Namespace returns the backing namespace.
	Namespace() string

	// Path returns the keys leading from the document root to this node.
	Path() []string

	// Kind returns the kind fixed when the handle was first resolved.
	Kind() Kind

	// Get returns a copy of the node at path.
	Get(path ...any) (any, error)

	// Set assigns v at path and persists. Mapping keys are created or
	// overwritten; sequence positions must exist.
	Set(v any, path ...any) error

	// Delete removes the entry at path and persists. The path must not be
	// empty.
	Delete(path ...any) error

	// Append appends v to the sequence at path and persists.
	Append(v any, path ...any) error

	// Contains reports whether the node at path holds v as a key
	// (mapping), element (sequence) or substring (string).
	Contains(v any, path ...any) (bool, error)

	// Store resolves a mapping handle below this one.
	Store(path ...string) (Handle, error)

	// ListStore resolves a handle below this one whose last segment
	// defaults to a sequence.
	ListStore(path ...string) (Handle, error)
}

// storage executes tree operations for a node. Paths are relative to the
// node that owns the storage.
type storage interface {
	get(path []any) (any, error)
	set(path []any, v any) error
	delete(path []any) error
	append(path []any, v any) error
	contains(path []any, v any) (bool, error)
}

// rootStorage runs operations against the namespace's Document.
type rootStorage struct {
	doc *Document
}

func (s rootStorage) get(path []any) (any, error) {
	return s.doc.get(path)
}

func (s rootStorage) set(path []any, v any) error {
	return s.doc.set(path, v)
}

func (s rootStorage) delete(path []any) error {
	return s.doc.delete(path)
}

func (s rootStorage) append(path []any, v any) error {
	return s.doc.append(path, v)
}

func (s rootStorage) contains(path []any, v any) (bool, error) {
	return s.doc.contains(path, v)
}

// derivedStorage prefixes its key and hands the call to the parent.
type derivedStorage struct {
	parent *node
	key    string
}

func (s derivedStorage) prefix(path []any) []any {
	return value.Join([]any{s.key}, path...)
}

func (s derivedStorage) get(path []any) (any, error) {
	return s.parent.st.get(s.prefix(path))
}

func (s derivedStorage) set(path []any, v any) error {
	return s.parent.st.set(s.prefix(path), v)
}

func (s derivedStorage) delete(path []any) error {
	return s.parent.st.delete(s.prefix(path))
}

func (s derivedStorage) append(path []any, v any) error {
	return s.parent.st.append(s.prefix(path), v)
}

func (s derivedStorage) contains(path []any, v any) (bool, error) {
	return s.parent.st.contains(s.prefix(path), v)
}

// node implements Handle. Root and derived handles differ only in st.
type node struct {
	reg      *Registry
	ns       string
	path     []string
	kind     Kind
	children map[string]*node
	st       storage
}

func (n *node) Namespace() string { return n.ns }

func (n *node) Path() []string {
	out := make([]string, len(n.path))
	copy(out, n.path)
	return out
}

func (n *node) Kind() Kind { return n.kind }

func (n *node) opError(op string, path []any, err error) error {
	return &OpError{
		Op:        op,
		Namespace: n.ns,
		Path:      value.Join(value.Keys(n.path...), path...),
		Err:       err,
	}
}

func (n *node) Get(path ...any) (any, error) {
	if n.reg.closed {
		return nil, n.opError("get", path, ErrClosed)
	}
	v, err := n.st.get(path)
	if err != nil {
		return nil, n.opError("get", path, err)
	}
	return v, nil
}

func (n *node) Set(v any, path ...any) error {
	if n.reg.closed {
		return n.opError("set", path, ErrClosed)
	}
	nv, err := value.Normalize(v)
	if err != nil {
		return n.opError("set", path, err)
	}
	if err := n.st.set(path, nv); err != nil {
		return n.opError("set", path, err)
	}
	return nil
}

func (n *node) Delete(path ...any) error {
	if n.reg.closed {
		return n.opError("delete", path, ErrClosed)
	}
	// A derived handle would otherwise delete its own key and leave the
	// memoized handle pointing at nothing.
	if len(path) == 0 {
		return n.opError("delete", path, fmt.Errorf("%w: delete needs at least one segment", ErrInvalidPath))
	}
	if err := n.st.delete(path); err != nil {
		return n.opError("delete", path, err)
	}
	return nil
}

func (n *node) Append(v any, path ...any) error {
	if n.reg.closed {
		return n.opError("append", path, ErrClosed)
	}
	nv, err := value.Normalize(v)
	if err != nil {
		return n.opError("append", path, err)
	}
	if err := n.st.append(path, nv); err != nil {
		return n.opError("append", path, err)
	}
	return nil
}

func (n *node) Contains(v any, path ...any) (bool, error) {
	if n.reg.closed {
		return false, n.opError("contains", path, ErrClosed)
	}
	nv, err := value.Normalize(v)
	if err != nil {
		return false, n.opError("contains", path, err)
	}
	ok, err := n.st.contains(path, nv)
	if err != nil {
		return false, n.opError("contains", path, err)
	}
	return ok, nil
}

func (n *node) Store(path ...string) (Handle, error) {
	return n.reg.descend(n, path, false)
}

func (n *node) ListStore(path ...string) (Handle, error) {
	return n.reg.descend(n, path, true)
}

// child returns the memoized handle for key, creating it on first use. A new
// child whose key is missing from this node inserts kind's empty structure
// there, which persists the document.
func (n *node) child(key string, kind Kind) (*node, error) {
	if c, ok := n.children[key]; ok {
		return c, nil
	}

	keyPath := []any{key}
	self, err := n.st.get(nil)
	if err != nil {
		return nil, n.opError("resolve", keyPath, err)
	}
	// Only mappings hold keys; membership on a string or sequence would
	// match substrings and elements instead.
	if !value.IsMapping(self) {
		return nil, n.opError("resolve", keyPath,
			fmt.Errorf("%w: key %q below a %s", ErrTypeMismatch, key, value.TypeName(self)))
	}
	_, present := self.(map[string]any)[key]
	if !present {
		if err := n.st.set(keyPath, kind.Empty()); err != nil {
			return nil, n.opError("resolve", keyPath, err)
		}
	}

	path := make([]string, len(n.path), len(n.path)+1)
	copy(path, n.path)
	c := &node{
		reg:      n.reg,
		ns:       n.ns,
		path:     append(path, key),
		kind:     kind,
		children: make(map[string]*node),
		st:       derivedStorage{parent: n, key: key},
	}
	n.children[key] = c
	n.reg.opts.logger.Debug("resolved handle",
		"namespace", n.ns,
		"path", value.FormatPath(value.Keys(c.path...)),
		"kind", kind.String(),
		"inserted", !present,
	)
	return c, nil
}
