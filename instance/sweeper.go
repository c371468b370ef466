package instance

import (
	"time"
)

// The sweeper is the reference-queue half of the registry. Every
// registration attaches a runtime cleanup to the instance; once the
// collector proves the instance unreachable, the cleanup pushes the
// registration's weak slot onto the pending queue. The sweep loop drains
// that queue on a fixed cadence, purges the slot's mappings and reports
// the identifier to the FinalizationListener.

func (r *Registry) sweepLoop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.releaseFinalized()
		}
	}
}

// enqueueFinalized is invoked by the runtime's cleanup goroutine once a
// registered instance has become unreachable. It must not take the
// registry lock: the only shared state it touches is the pending queue.
func (r *Registry) enqueueFinalized(slot *weakSlot) {
	r.pendMu.Lock()
	r.pending = append(r.pending, slot)
	r.pendMu.Unlock()
}

// Sweep runs one finalization pass immediately. The background sweeper
// makes calling this unnecessary in normal operation; it exists for
// callers that need collected instances reported before the next tick.
func (r *Registry) Sweep() {
	r.releaseFinalized()
}

func (r *Registry) releaseFinalized() {
	r.pendMu.Lock()
	batch := r.pending
	r.pending = nil
	r.pendMu.Unlock()

	if len(batch) == 0 {
		return
	}

	var finalized []int64
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	for _, slot := range batch {
		identifier, ok := r.weakToIdentifiers[slot]
		if !ok {
			// Cleared or already finalized; report nothing.
			continue
		}
		delete(r.weakToIdentifiers, slot)
		delete(r.weakInstances, identifier)
		delete(r.strongInstances, identifier)
		// The identity entry is keyed by the instance's weak pointer. If
		// the instance was re-registered under a newer identifier, that
		// registration owns the entry now; leave it.
		if current, ok := r.identifiers[slot.ref]; ok && current == identifier {
			delete(r.identifiers, slot.ref)
		}
		finalized = append(finalized, identifier)
	}
	r.mu.Unlock()

	// The listener runs outside the registry lock so it may call back in.
	for _, identifier := range finalized {
		r.listener.OnFinalize(identifier)
		r.emit(Event{Type: EventFinalized, Identifier: identifier, Origin: originOf(identifier)})
	}
}
