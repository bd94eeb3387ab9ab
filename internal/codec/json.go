package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/pathstore/internal/value"
)

// Indent is the indentation unit used by the JSON and YAML codecs.
const Indent = "    "

// JSON is the default codec.
type JSON struct{}

// Name implements Codec.
func (JSON) Name() string { return "json" }

// Encode writes v with sorted keys and four-space indentation.
// HTML escaping is disabled so <, > and & stay readable in the file.
func (JSON) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a single JSON document.
func (JSON) Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("json decode: empty document")
	}
	v, err := value.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return v, nil
}
