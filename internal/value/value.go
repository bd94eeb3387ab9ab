package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// Normalize converts an arbitrary Go value into canonical node types.
//
// The conversion is a JSON round trip, so anything encoding/json can marshal
// is accepted: structs with json tags, typed maps and slices, json.Number,
// time.Time. Integral numbers become int64, other numbers float64. Integers
// outside the int64 range are rejected rather than rounded to float64.
// The result shares no memory with v.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return val, nil
	case bool:
		return val, nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("%w: unsupported float %v", ErrTypeMismatch, val)
		}
		return val, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: cannot represent %T: %v", ErrTypeMismatch, v, err)
	}
	return FromJSON(buf.Bytes())
}

// FromJSON decodes a single JSON value into canonical node types.
// Numbers are decoded with UseNumber so large integers keep their precision.
// Trailing data after the first value is an error.
func FromJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return fromDecoded(raw)
}

// fromDecoded rewrites json.Number leaves produced by a UseNumber decoder.
func fromDecoded(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		if !strings.ContainsAny(string(val), ".eE") {
			return nil, fmt.Errorf("%w: integer %s does not fit in 64 bits", ErrTypeMismatch, val)
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number out of range: %s", val)
		}
		return f, nil
	case []any:
		for i, elem := range val {
			conv, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			val[i] = conv
		}
		return val, nil
	case map[string]any:
		for k, elem := range val {
			conv, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			val[k] = conv
		}
		return val, nil
	default:
		return val, nil
	}
}

// Clone returns a deep copy of a canonical tree.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	default:
		return val
	}
}

// Equal reports whether two canonical trees are structurally equal.
// Numbers compare by numeric value, so int64(1) equals float64(1).
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int64, float64:
		return numbersEqual(a, b)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, ok := bv[k]
			if !ok || !Equal(elem, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(a, b any) bool {
	switch bv := b.(type) {
	case int64:
		if ai, ok := a.(int64); ok {
			return ai == bv
		}
		return a.(float64) == float64(bv)
	case float64:
		if ai, ok := a.(int64); ok {
			return float64(ai) == bv
		}
		return a.(float64) == bv
	default:
		return false
	}
}

// IsMapping reports whether v is a mapping node.
func IsMapping(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsSequence reports whether v is a sequence node.
func IsSequence(v any) bool {
	_, ok := v.([]any)
	return ok
}

// TypeName returns a short, user-facing name for a node's type.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case int64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "sequence"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// SortedKeys returns a mapping's keys in byte order, the order the JSON
// codec writes them in.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
