package store

// Kind is the container type a handle creates when its key is missing.
type Kind int

const (
	// KindMapping handles default to an empty mapping.
	KindMapping Kind = iota

	// KindSequence handles default to an empty sequence.
	KindSequence
)

func kindFor(list bool) Kind {
	if list {
		return KindSequence
	}
	return KindMapping
}

// String returns "mapping" or "sequence".
func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Empty returns a fresh default structure for the kind.
func (k Kind) Empty() any {
	if k == KindSequence {
		return []any{}
	}
	return map[string]any{}
}
