package store

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/roach88/pathstore/internal/backend"
	"github.com/roach88/pathstore/internal/codec"
	"github.com/roach88/pathstore/internal/value"
)

type options struct {
	backend   backend.Backend
	codec     codec.Codec
	logger    *slog.Logger
	hooks     Hooks
	revisions RevisionGenerator
	strict    bool
	now       func() time.Time
}

func (o *options) codecFor(namespace string) codec.Codec {
	if o.codec != nil {
		return o.codec
	}
	return codec.ForNamespace(namespace)
}

// Option configures a Registry.
type Option func(*options)

// WithBackend sets where documents are persisted. The registry closes it on
// Close. Defaults to UTF-8 files named by the namespace.
func WithBackend(b backend.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithCodec uses c for every namespace instead of choosing by extension.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithLogger sets the logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHooks adds hooks notified after every persisted write.
func WithHooks(hooks ...Hook) Option {
	return func(o *options) { o.hooks = append(o.hooks, hooks...) }
}

// WithRevisionGenerator sets how write revisions are named.
func WithRevisionGenerator(g RevisionGenerator) Option {
	return func(o *options) { o.revisions = g }
}

// WithStrictKinds makes resolving an existing path with a different kind
// fail with ErrInvalidPath. By default the first kind wins and later
// requests silently get the existing handle.
func WithStrictKinds(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithClock sets the time source for Event.OccurredAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Registry hands out memoized handles. It is created once and passed to
// whatever needs handles; entries live until the registry is discarded.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	opts   options
	roots  map[string]*node
	closed bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	o := options{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		revisions: UUIDv7Generator{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = backend.DefaultFileBackend()
	}
	return &Registry{
		opts:  o,
		roots: make(map[string]*node),
	}
}

// Resolve returns the handle at path in namespace, creating the document and
// any missing intermediate handles. Every segment but the last defaults to a
// mapping; the last defaults to a sequence when listTerminal is set. With an
// empty path the root handle is returned, and listTerminal picks the kind of
// a newly created document.
//
// Repeated calls with the same namespace and path return the same Handle.
func (r *Registry) Resolve(namespace string, path []string, listTerminal bool) (Handle, error) {
	if r.closed {
		return nil, &OpError{Op: "resolve", Namespace: namespace, Path: value.Keys(path...), Err: ErrClosed}
	}
	if namespace == "" {
		return nil, &OpError{Op: "resolve", Path: value.Keys(path...), Err: fmt.Errorf("%w: empty namespace", ErrInvalidPath)}
	}
	root, err := r.root(namespace, len(path) == 0 && listTerminal)
	if err != nil {
		return nil, err
	}
	return r.descend(root, path, listTerminal)
}

// Store resolves a mapping-terminated handle.
func (r *Registry) Store(namespace string, path ...string) (Handle, error) {
	return r.Resolve(namespace, path, false)
}

// ListStore resolves a sequence-terminated handle.
func (r *Registry) ListStore(namespace string, path ...string) (Handle, error) {
	return r.Resolve(namespace, path, true)
}

// Root returns the namespace's root handle whatever its kind. A missing
// document is created as a mapping.
func (r *Registry) Root(namespace string) (Handle, error) {
	if r.closed {
		return nil, &OpError{Op: "resolve", Namespace: namespace, Err: ErrClosed}
	}
	if namespace == "" {
		return nil, &OpError{Op: "resolve", Err: fmt.Errorf("%w: empty namespace", ErrInvalidPath)}
	}
	n, err := r.root(namespace, false)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Namespaces returns the namespaces opened so far, sorted.
func (r *Registry) Namespaces() []string {
	names := make([]string, 0, len(r.roots))
	for name := range r.roots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info describes the namespace's document, opening it if needed.
func (r *Registry) Info(namespace string) (Info, error) {
	if r.closed {
		return Info{}, &OpError{Op: "info", Namespace: namespace, Err: ErrClosed}
	}
	if namespace == "" {
		return Info{}, &OpError{Op: "info", Err: fmt.Errorf("%w: empty namespace", ErrInvalidPath)}
	}
	root, err := r.root(namespace, false)
	if err != nil {
		return Info{}, err
	}
	info, err := root.st.(rootStorage).doc.info()
	if err != nil {
		return Info{}, &OpError{Op: "info", Namespace: namespace, Err: err}
	}
	return info, nil
}

// Raw returns the namespace's backing content as the backend holds it,
// without opening the document.
func (r *Registry) Raw(namespace string) ([]byte, error) {
	if r.closed {
		return nil, &OpError{Op: "raw", Namespace: namespace, Err: ErrClosed}
	}
	data, err := r.opts.backend.Read(namespace)
	if err != nil {
		return nil, &OpError{Op: "raw", Namespace: namespace, Err: err}
	}
	return data, nil
}

// Close releases the backend. Handles fail with ErrClosed afterwards.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.opts.backend.Close()
}

// root returns the namespace's root handle, opening the document on first
// use. list only matters when the document has to be created.
func (r *Registry) root(namespace string, list bool) (*node, error) {
	if n, ok := r.roots[namespace]; ok {
		return n, nil
	}

	kind := kindFor(list)
	doc, err := openDocument(namespace, kind, &r.opts)
	if err != nil {
		return nil, &OpError{Op: "resolve", Namespace: namespace, Err: err}
	}
	// A loaded document keeps the kind it was written with.
	switch doc.tree.(type) {
	case map[string]any:
		kind = KindMapping
	case []any:
		kind = KindSequence
	}
	n := &node{
		reg:      r,
		ns:       namespace,
		kind:     kind,
		children: make(map[string]*node),
		st:       rootStorage{doc: doc},
	}
	r.roots[namespace] = n
	return n, nil
}

// descend walks path below from, one memoized child per segment.
func (r *Registry) descend(from *node, path []string, listTerminal bool) (Handle, error) {
	if r.closed {
		return nil, from.opError("resolve", value.Keys(path...), ErrClosed)
	}
	for i, seg := range path {
		if seg == "" {
			return nil, from.opError("resolve", value.Keys(path[:i+1]...), fmt.Errorf("%w: empty key", ErrInvalidPath))
		}
	}

	cur := from
	for i, seg := range path {
		kind := KindMapping
		if listTerminal && i == len(path)-1 {
			kind = KindSequence
		}
		next, err := cur.child(seg, kind)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	if want := kindFor(listTerminal); r.opts.strict && cur.kind != want {
		return nil, cur.opError("resolve", nil,
			fmt.Errorf("%w: resolved as %s, requested %s", ErrInvalidPath, cur.kind, want))
	}
	return cur, nil
}
