// Package codec encodes document trees to bytes and back.
//
// JSON is the default and canonical format: sorted keys, four-space
// indentation, UTF-8, and a trailing newline so files diff cleanly. YAML and
// TOML are offered for namespaces whose file extension asks for them.
//
// Decode always returns canonical node types (see package value).
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned when a format cannot represent a document.
var ErrUnsupported = errors.New("codec: unsupported document")

// Codec converts a document tree to bytes and back.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// Names lists the codecs ByName accepts.
var Names = []string{"json", "yaml", "toml"}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	case "toml":
		return TOML{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown format %q: must be one of %v", name, Names)
	}
}

// ForNamespace picks a codec from a namespace's file extension.
// Unknown extensions get JSON.
func ForNamespace(namespace string) Codec {
	switch strings.ToLower(filepath.Ext(namespace)) {
	case ".yaml", ".yml":
		return YAML{}
	case ".toml":
		return TOML{}
	default:
		return JSON{}
	}
}
