package value

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPath renders a path for error messages, e.g. user.tags[0].
func FormatPath(path []any) string {
	if len(path) == 0 {
		return "<root>"
	}
	var b strings.Builder
	for i, seg := range path {
		if idx, ok := toIndex(seg); ok {
			b.WriteString("[" + strconv.Itoa(idx) + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(fmt.Sprint(seg))
	}
	return b.String()
}

// Keys converts mapping keys into a path.
func Keys(keys ...string) []any {
	path := make([]any, len(keys))
	for i, k := range keys {
		path[i] = k
	}
	return path
}

// Join returns a new path made of prefix followed by rest.
// Neither argument is modified.
func Join(prefix []any, rest ...any) []any {
	path := make([]any, 0, len(prefix)+len(rest))
	path = append(path, prefix...)
	return append(path, rest...)
}

// toIndex reports whether seg is an integer segment and returns it as int.
func toIndex(seg any) (int, bool) {
	switch v := seg.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	default:
		return 0, false
	}
}

// resolveIndex maps a possibly negative position onto s.
func resolveIndex(s []any, seg any, path []any) (int, error) {
	idx, ok := toIndex(seg)
	if !ok {
		if _, isKey := seg.(string); isKey {
			return 0, fmt.Errorf("%w: key %q used on a sequence at %s", ErrTypeMismatch, seg, FormatPath(path))
		}
		return 0, fmt.Errorf("%w: segment of type %T at %s", ErrInvalidPath, seg, FormatPath(path))
	}
	if idx < 0 {
		idx += len(s)
	}
	if idx < 0 || idx >= len(s) {
		return 0, fmt.Errorf("%w: index %v at %s (length %d)", ErrIndexOutOfRange, seg, FormatPath(path), len(s))
	}
	return idx, nil
}

// mappingKey validates seg as a mapping key.
func mappingKey(seg any, path []any) (string, error) {
	key, ok := seg.(string)
	if ok {
		return key, nil
	}
	if _, isIndex := toIndex(seg); isIndex {
		return "", fmt.Errorf("%w: index %v on a mapping at %s", ErrKeyNotFound, seg, FormatPath(path))
	}
	return "", fmt.Errorf("%w: segment of type %T at %s", ErrInvalidPath, seg, FormatPath(path))
}

// step descends one segment from node. path is the path up to and including
// seg and is only used for error messages.
func step(node any, seg any, path []any) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		key, err := mappingKey(seg, path)
		if err != nil {
			return nil, err
		}
		child, ok := n[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, FormatPath(path))
		}
		return child, nil
	case []any:
		idx, err := resolveIndex(n, seg, path)
		if err != nil {
			return nil, err
		}
		return n[idx], nil
	default:
		if _, isKey := seg.(string); !isKey {
			if _, isIndex := toIndex(seg); !isIndex {
				return nil, fmt.Errorf("%w: segment of type %T at %s", ErrInvalidPath, seg, FormatPath(path))
			}
		}
		return nil, fmt.Errorf("%w: cannot descend into %s at %s", ErrTypeMismatch, TypeName(node), FormatPath(path))
	}
}

// Walk follows path from root and returns the node it reaches.
// The returned node is part of root, not a copy.
func Walk(root any, path []any) (any, error) {
	node := root
	for i, seg := range path {
		next, err := step(node, seg, path[:i+1])
		if err != nil {
			return nil, err
		}
		node = next
	}
	return node, nil
}

// update walks path, replaces the node found there with fn's result, and
// stores every container on the way back into its parent. Sequences can
// change length, so each parent has to receive its child's new header.
// It returns the new root.
func update(root any, path []any, fn func(node any) (any, error)) (any, error) {
	chain := make([]any, len(path)+1)
	chain[0] = root
	for i, seg := range path {
		next, err := step(chain[i], seg, path[:i+1])
		if err != nil {
			return nil, err
		}
		chain[i+1] = next
	}

	leaf, err := fn(chain[len(path)])
	if err != nil {
		return nil, err
	}
	chain[len(path)] = leaf

	for i := len(path) - 1; i >= 0; i-- {
		switch parent := chain[i].(type) {
		case map[string]any:
			parent[path[i].(string)] = chain[i+1]
		case []any:
			idx, _ := resolveIndex(parent, path[i], path[:i+1])
			parent[idx] = chain[i+1]
		}
	}
	return chain[0], nil
}

// SetAt assigns v at path and returns the new root. Mapping keys are created
// or overwritten. Sequence positions must already exist.
func SetAt(root any, path []any, v any) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: set needs at least one segment", ErrInvalidPath)
	}
	last := path[len(path)-1]
	return update(root, path[:len(path)-1], func(parent any) (any, error) {
		switch p := parent.(type) {
		case map[string]any:
			key, ok := last.(string)
			if !ok {
				return nil, fmt.Errorf("%w: mapping keys must be strings, got %T at %s", ErrInvalidPath, last, FormatPath(path))
			}
			p[key] = v
			return p, nil
		case []any:
			idx, err := resolveIndex(p, last, path)
			if err != nil {
				return nil, err
			}
			p[idx] = v
			return p, nil
		default:
			return nil, fmt.Errorf("%w: cannot assign into %s at %s", ErrTypeMismatch, TypeName(parent), FormatPath(path))
		}
	})
}

// DeleteAt removes the entry at path and returns the new root. Removing a
// sequence position shifts the following elements down.
func DeleteAt(root any, path []any) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: delete needs at least one segment", ErrInvalidPath)
	}
	last := path[len(path)-1]
	return update(root, path[:len(path)-1], func(parent any) (any, error) {
		switch p := parent.(type) {
		case map[string]any:
			key, err := mappingKey(last, path)
			if err != nil {
				return nil, err
			}
			if _, ok := p[key]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, FormatPath(path))
			}
			delete(p, key)
			return p, nil
		case []any:
			idx, err := resolveIndex(p, last, path)
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(p)-1)
			out = append(out, p[:idx]...)
			return append(out, p[idx+1:]...), nil
		default:
			return nil, fmt.Errorf("%w: cannot delete from %s at %s", ErrTypeMismatch, TypeName(parent), FormatPath(path))
		}
	})
}

// AppendAt appends v to the sequence at path and returns the new root.
func AppendAt(root any, path []any, v any) (any, error) {
	return update(root, path, func(node any) (any, error) {
		s, ok := node.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: append needs a sequence, found %s at %s", ErrTypeMismatch, TypeName(node), FormatPath(path))
		}
		return append(s, v), nil
	})
}

// ContainsAt reports whether the node at path holds v: as a key for a
// mapping, as an element for a sequence, as a substring for a string.
func ContainsAt(root any, path []any, v any) (bool, error) {
	node, err := Walk(root, path)
	if err != nil {
		return false, err
	}
	switch n := node.(type) {
	case map[string]any:
		key, ok := v.(string)
		if !ok {
			return false, nil
		}
		_, found := n[key]
		return found, nil
	case []any:
		for _, elem := range n {
			if Equal(elem, v) {
				return true, nil
			}
		}
		return false, nil
	case string:
		sub, ok := v.(string)
		if !ok {
			return false, fmt.Errorf("%w: string membership needs a string, got %s", ErrTypeMismatch, TypeName(v))
		}
		return strings.Contains(n, sub), nil
	default:
		return false, fmt.Errorf("%w: membership needs a container, found %s at %s", ErrTypeMismatch, TypeName(node), FormatPath(path))
	}
}
