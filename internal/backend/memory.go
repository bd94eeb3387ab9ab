package backend

import (
	"fmt"
	"sync"
)

// MemoryBackend implements Backend with in-memory storage.
// Useful for tests and for stores that should not outlive the process.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	meta   map[string]Meta
	writes map[string]int
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:   make(map[string][]byte),
		meta:   make(map[string]Meta),
		writes: make(map[string]int),
	}
}

// Exists reports whether the namespace has been written.
func (m *MemoryBackend) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[name]
	return ok, nil
}

// Read returns a copy of the namespace's content.
func (m *MemoryBackend) Read(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores a copy of data.
func (m *MemoryBackend) Write(name string, data []byte) error {
	return m.WriteMeta(name, data, Meta{})
}

// WriteMeta stores a copy of data along with its metadata.
func (m *MemoryBackend) WriteMeta(name string, data []byte, meta Meta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[name] = stored
	m.meta[name] = meta
	m.writes[name]++
	return nil
}

// Writes returns how many times the namespace has been written.
func (m *MemoryBackend) Writes(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[name]
}

// Meta returns the metadata of the last write to the namespace.
func (m *MemoryBackend) Meta(name string) (Meta, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.meta[name]
	return meta, ok
}

// ReadMeta implements MetaReader.
func (m *MemoryBackend) ReadMeta(name string) (Meta, error) {
	meta, ok := m.Meta(name)
	if !ok {
		return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return meta, nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error {
	return nil
}
