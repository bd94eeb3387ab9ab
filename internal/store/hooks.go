package store

import (
	"errors"
	"time"
)

// Op names a persisted change.
type Op string

const (
	OpCreate Op = "create"
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpAppend Op = "append"
)

// Event describes one completed write of a document.
type Event struct {
	Revision   string
	Seq        int64
	Namespace  string
	Op         Op
	Path       []any
	OccurredAt time.Time
}

// Hook observes completed writes. A returned error is logged; the write it
// describes has already been persisted and is not undone.
type Hook interface {
	Notify(Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(Event) error

// Notify calls f.
func (f HookFunc) Notify(e Event) error {
	return f(e)
}

// Hooks fans an event out to every hook in order.
type Hooks []Hook

// Notify calls every hook, even after a failure, and joins their errors.
func (hs Hooks) Notify(e Event) error {
	var errs []error
	for _, h := range hs {
		if err := h.Notify(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
