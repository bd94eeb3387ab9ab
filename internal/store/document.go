package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/pathstore/internal/backend"
	"github.com/roach88/pathstore/internal/codec"
	"github.com/roach88/pathstore/internal/value"
)

// Document is the in-memory tree of one namespace together with the backend
// and codec that persist it. Only the root handle of a namespace holds one.
//
// The live tree always equals the content of the last successful write.
type Document struct {
	namespace string
	tree      any

	backend   backend.Backend
	codec     codec.Codec
	logger    *slog.Logger
	hooks     Hooks
	revisions RevisionGenerator
	now       func() time.Time

	revision string
	seq      int64
}

// openDocument loads the namespace from the backend, or creates it with
// kind's empty structure and persists that immediately.
func openDocument(namespace string, kind Kind, o *options) (*Document, error) {
	d := &Document{
		namespace: namespace,
		backend:   o.backend,
		codec:     o.codecFor(namespace),
		logger:    o.logger,
		hooks:     o.hooks,
		revisions: o.revisions,
		now:       o.now,
	}

	exists, err := d.backend.Exists(namespace)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := d.mutate(OpCreate, nil, func(any) (any, error) { return kind.Empty(), nil }); err != nil {
			return nil, err
		}
		d.logger.Debug("created document", "namespace", namespace, "kind", kind.String(), "codec", d.codec.Name())
		return d, nil
	}

	data, err := d.backend.Read(namespace)
	if err != nil {
		return nil, err
	}
	tree, err := d.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStore, namespace, err)
	}
	d.tree = tree

	meta, err := backend.ReadMeta(d.backend, namespace)
	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		return nil, err
	}
	d.revision = meta.Revision
	d.seq = meta.Seq

	d.logger.Debug("loaded document",
		"namespace", namespace,
		"codec", d.codec.Name(),
		"bytes", len(data),
		"seq", d.seq,
	)
	return d, nil
}

// mutate applies fn to a copy of the tree and persists the result. The live
// tree is replaced only after the write succeeds; any failure before that
// leaves both the tree and the backing content untouched.
func (d *Document) mutate(op Op, path []any, fn func(tree any) (any, error)) error {
	next, err := fn(value.Clone(d.tree))
	if err != nil {
		return err
	}

	data, err := d.codec.Encode(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.namespace, err)
	}
	digest, err := value.Digest(next)
	if err != nil {
		return fmt.Errorf("digest %s: %w", d.namespace, err)
	}

	meta := backend.Meta{
		Revision: d.revisions.Generate(),
		Seq:      d.seq + 1,
		Digest:   digest,
	}
	if err := backend.WriteWithMeta(d.backend, d.namespace, data, meta); err != nil {
		return err
	}

	d.tree = next
	d.revision = meta.Revision
	d.seq = meta.Seq

	d.logger.Debug("persisted document",
		"namespace", d.namespace,
		"op", string(op),
		"path", value.FormatPath(path),
		"revision", meta.Revision,
		"seq", meta.Seq,
		"bytes", len(data),
	)

	event := Event{
		Revision:   meta.Revision,
		Seq:        meta.Seq,
		Namespace:  d.namespace,
		Op:         op,
		Path:       value.Join(path),
		OccurredAt: d.now(),
	}
	if err := d.hooks.Notify(event); err != nil {
		d.logger.Warn("hook failed", "namespace", d.namespace, "seq", meta.Seq, "error", err)
	}
	return nil
}

// get returns a deep copy of the node at path.
func (d *Document) get(path []any) (any, error) {
	node, err := value.Walk(d.tree, path)
	if err != nil {
		return nil, err
	}
	return value.Clone(node), nil
}

func (d *Document) set(path []any, v any) error {
	return d.mutate(OpSet, path, func(tree any) (any, error) {
		return value.SetAt(tree, path, v)
	})
}

func (d *Document) delete(path []any) error {
	return d.mutate(OpDelete, path, func(tree any) (any, error) {
		return value.DeleteAt(tree, path)
	})
}

func (d *Document) append(path []any, v any) error {
	return d.mutate(OpAppend, path, func(tree any) (any, error) {
		return value.AppendAt(tree, path, v)
	})
}

func (d *Document) contains(path []any, v any) (bool, error) {
	return value.ContainsAt(d.tree, path, v)
}

// Info summarizes a document for display.
type Info struct {
	Namespace string `json:"namespace"`
	Codec     string `json:"codec"`
	Type      string `json:"type"`
	Size      int    `json:"size"`
	Digest    string `json:"digest"`
	Revision  string `json:"revision,omitempty"`
	Seq       int64  `json:"seq"`
}

func (d *Document) info() (Info, error) {
	digest, err := value.Digest(d.tree)
	if err != nil {
		return Info{}, err
	}
	size := 0
	switch n := d.tree.(type) {
	case map[string]any:
		size = len(n)
	case []any:
		size = len(n)
	}
	return Info{
		Namespace: d.namespace,
		Codec:     d.codec.Name(),
		Type:      value.TypeName(d.tree),
		Size:      size,
		Digest:    digest,
		Revision:  d.revision,
		Seq:       d.seq,
	}, nil
}
