package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the text encoding used when none is configured.
const DefaultEncoding = "utf-8"

// FileBackend stores each namespace in the file it names.
// Content is held as UTF-8 in memory and transcoded on the way to and from
// disk when another text encoding is configured.
type FileBackend struct {
	encoding encoding.Encoding
	name     string
}

// DefaultFileBackend returns a UTF-8 file backend.
func DefaultFileBackend() *FileBackend {
	return &FileBackend{encoding: unicode.UTF8, name: DefaultEncoding}
}

// NewFileBackend creates a file backend for the named text encoding.
// Names are WHATWG labels, e.g. "utf-8", "utf-16le", "iso-8859-1",
// "windows-1252". An empty name selects UTF-8.
func NewFileBackend(encodingName string) (*FileBackend, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, fmt.Errorf("backend: unknown text encoding %q: %w", encodingName, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = encodingName
	}
	return &FileBackend{encoding: enc, name: canonical}, nil
}

// Encoding returns the canonical name of the configured text encoding.
func (b *FileBackend) Encoding() string {
	return b.name
}

func (b *FileBackend) isUTF8() bool {
	return b.name == DefaultEncoding
}

// Exists reports whether the file exists.
func (b *FileBackend) Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("backend: stat %s: %w", name, err)
}

// Read returns the file content decoded to UTF-8.
func (b *FileBackend) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("backend: read %s: %w", name, err)
	}
	if b.isUTF8() {
		return data, nil
	}
	out, err := b.encoding.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("backend: decode %s as %s: %w", name, b.name, err)
	}
	return out, nil
}

// Write encodes data and overwrites the file, creating parent directories.
func (b *FileBackend) Write(name string, data []byte) error {
	out := data
	if !b.isUTF8() {
		var err error
		out, err = b.encoding.NewEncoder().Bytes(data)
		if err != nil {
			return fmt.Errorf("backend: encode %s as %s: %w", name, b.name, err)
		}
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("backend: create directory for %s: %w", name, err)
		}
	}
	if err := os.WriteFile(name, out, 0o644); err != nil {
		return fmt.Errorf("backend: write %s: %w", name, err)
	}
	return nil
}

// Close is a no-op; files are opened per call.
func (b *FileBackend) Close() error {
	return nil
}
