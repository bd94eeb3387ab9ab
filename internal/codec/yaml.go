package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pathstore/internal/value"
)

// YAML stores documents as block-style YAML.
type YAML struct{}

// Name implements Codec.
func (YAML) Name() string { return "yaml" }

// Encode writes v as YAML. yaml.v3 sorts mapping keys when encoding maps.
func (YAML) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(len(Indent))
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a YAML document. Mappings with non-string keys and other
// values JSON cannot hold are rejected.
func (YAML) Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("yaml decode: empty document")
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	v, err := value.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	return v, nil
}
