package instance

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/mirrorlink/bridge"
)

// Event types for registry lifecycle notifications.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventStrongRemoved
	EventRevived
	EventFinalized
	EventCleared
)

func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "registered"
	case EventStrongRemoved:
		return "strong_removed"
	case EventRevived:
		return "revived"
	case EventFinalized:
		return "finalized"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event represents a registry lifecycle event. Events carry identifiers
// only, never the instance itself, so observers cannot extend an
// instance's lifetime.
type Event struct {
	Identifier int64
	Origin     bridge.Origin
	Type       EventType
}

// Observer receives notifications about registry lifecycle events.
// Delivery is asynchronous and unordered.
type Observer interface {
	OnRegistryEvent(Event)
}

const defaultEventWorkers = 4

// dispatcher fans registry events out to observers on a small worker pool
// so emitters never block on observer work.
type dispatcher struct {
	pool      *ants.Pool
	obsMu     sync.RWMutex
	observers []Observer
}

func newDispatcher(workers int) *dispatcher {
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		pool = nil
	}
	return &dispatcher{pool: pool}
}

func (d *dispatcher) subscribe(o Observer) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	d.observers = append(d.observers, o)
}

func (d *dispatcher) unsubscribe(o Observer) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	for i, obs := range d.observers {
		if obs == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

func (d *dispatcher) emit(e Event) {
	d.obsMu.RLock()
	obs := make([]Observer, len(d.observers))
	copy(obs, d.observers)
	d.obsMu.RUnlock()

	if len(obs) == 0 {
		return
	}

	deliver := func() {
		for _, o := range obs {
			o.OnRegistryEvent(e)
		}
	}
	if d.pool == nil || d.pool.Submit(deliver) != nil {
		// Pool saturated or released; deliver inline rather than drop.
		deliver()
	}
}

func (d *dispatcher) close() {
	if d.pool != nil {
		d.pool.Release()
	}
}
