package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pathstore/internal/backend"
	"github.com/roach88/pathstore/internal/codec"
)

// newTestRegistry returns a registry over a fresh in-memory backend with
// numbered revisions. The registry is closed on test cleanup.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *backend.MemoryBackend) {
	t.Helper()

	mem := backend.NewMemoryBackend()
	return newRegistryOver(t, mem, opts...), mem
}

func newRegistryOver(t *testing.T, b backend.Backend, opts ...Option) *Registry {
	t.Helper()

	base := []Option{WithBackend(b), WithRevisionGenerator(&CounterGenerator{})}
	r := NewRegistry(append(base, opts...)...)
	t.Cleanup(func() { r.Close() })
	return r
}

// persisted decodes what the backend currently holds for ns.
func persisted(t *testing.T, b backend.Backend, ns string) any {
	t.Helper()

	data, err := b.Read(ns)
	require.NoError(t, err)
	tree, err := codec.ForNamespace(ns).Decode(data)
	require.NoError(t, err)
	return tree
}

// failingBackend wraps a backend and rejects writes while fail is set.
type failingBackend struct {
	backend.Backend
	fail bool
}

func (f *failingBackend) Write(name string, data []byte) error {
	if f.fail {
		return errWriteRejected
	}
	return f.Backend.Write(name, data)
}

var errWriteRejected = errors.New("write rejected")
