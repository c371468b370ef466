package instance

import (
	"github.com/mirrorlink/bridge"
)

// allocator issues identifiers for host-created instances from the range
// reserved for the host, [bridge.MinHostIdentifier, 2^63). The counter is
// monotonic for the registry's lifetime; identifiers freed by removal are
// never recycled.
type allocator struct {
	next int64
}

func newAllocator() allocator {
	return allocator{next: bridge.MinHostIdentifier}
}

// allocate returns the next unused host-range identifier.
// Callers hold the registry lock.
func (a *allocator) allocate() int64 {
	id := a.next
	a.next++
	return id
}
