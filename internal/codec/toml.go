package codec

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/roach88/pathstore/internal/value"
)

// TOML stores mapping-rooted documents as TOML. TOML has no null and no
// top-level arrays, so such documents fail to encode with ErrUnsupported.
type TOML struct{}

// Name implements Codec.
func (TOML) Name() string { return "toml" }

// Encode writes v as TOML.
func (TOML) Encode(v any) ([]byte, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("toml encode: %w: root must be a mapping, got %s", ErrUnsupported, value.TypeName(v))
	}
	if err := checkTOML(m, nil); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("toml encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a TOML document. Datetimes become RFC 3339 strings.
// An empty file is an empty mapping.
func (TOML) Decode(data []byte) (any, error) {
	raw := map[string]any{}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("toml decode: %w", err)
	}
	v, err := value.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("toml decode: %w", err)
	}
	return v, nil
}

// checkTOML rejects nulls, which the TOML encoder would silently drop.
func checkTOML(v any, path []any) error {
	switch n := v.(type) {
	case nil:
		return fmt.Errorf("toml encode: %w: null at %s", ErrUnsupported, value.FormatPath(path))
	case map[string]any:
		for k, elem := range n {
			if err := checkTOML(elem, value.Join(path, k)); err != nil {
				return err
			}
		}
	case []any:
		for i, elem := range n {
			if err := checkTOML(elem, value.Join(path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
