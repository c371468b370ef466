package instance

import (
	"weak"
)

// weakRef observes a registered instance without extending its lifetime.
// Implementations are comparable: two refs made from the same pointer
// compare equal, which is what keys the identity mapping.
type weakRef interface {
	// value returns the boxed instance pointer, or nil once the target
	// has been collected.
	value() any
}

type weakOf[T any] struct {
	p weak.Pointer[T]
}

func (w weakOf[T]) value() any {
	if v := w.p.Value(); v != nil {
		return v
	}
	return nil
}

func makeRef[T any](obj *T) weakRef {
	return weakOf[T]{weak.Make(obj)}
}

// weakSlot is one registration's weak handle. Slots are allocated per
// registration, never shared: the same instance registered under two
// identifiers gets two slots, so each identifier is finalized
// independently. The slot pointer keys the reverse mapping the sweeper
// uses to recover an identifier from a collected handle.
type weakSlot struct {
	ref weakRef
}
