package instance

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mirrorlink/bridge"
	"github.com/mirrorlink/bridge/errors"
)

// ClosedIdentifier is returned from AddHostCreated if the registry is closed.
const ClosedIdentifier int64 = -1

// DefaultSweepInterval is the cadence of the finalization sweeper.
const DefaultSweepInterval = 30 * time.Second

const closedWarning = "method was called while the registry was closed"

// FinalizationListener is notified when an instance's weak handle reports
// its target collected and the identifier is removed from the registry.
// OnFinalize is invoked at most once per identifier, outside any registry
// lock, so the listener may call back into the registry.
type FinalizationListener interface {
	OnFinalize(identifier int64)
}

// FinalizationListenerFunc adapts a function to the FinalizationListener
// interface.
type FinalizationListenerFunc func(identifier int64)

func (f FinalizationListenerFunc) OnFinalize(identifier int64) { f(identifier) }

// Registry maintains instances used to communicate with the corresponding
// proxy objects in the guest runtime.
//
// Instances are held under the same identifier as both a weak handle and a
// strong reference. When the strong reference is removed with Remove and
// the weak handle's target is collected, the FinalizationListener is
// invoked with the instance's identifier. However, if the strong reference
// is removed and then the identifier is retrieved with the intention of
// passing it to the guest (IdentifierForStrongReference), the strong
// reference is recreated and must be removed manually again.
type Registry struct {
	mu sync.Mutex

	// The four mappings below form one consistency boundary: they are
	// only ever mutated together under mu.
	identifiers       map[weakRef]int64   // instance identity -> identifier
	weakInstances     map[int64]*weakSlot // identifier -> weak handle
	strongInstances   map[int64]any       // identifier -> strong reference
	weakToIdentifiers map[*weakSlot]int64 // weak handle -> identifier, consumed by the sweeper

	alloc    allocator
	listener FinalizationListener
	closed   bool

	pendMu  sync.Mutex
	pending []*weakSlot

	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	eventWorkers int
	events       *dispatcher
}

// Option configures a Registry at Open time.
type Option func(*Registry)

// WithSweepInterval overrides the finalization sweep cadence.
func WithSweepInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithEventWorkers sets the size of the worker pool that delivers registry
// events to observers.
func WithEventWorkers(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.eventWorkers = n
		}
	}
}

// Open constructs a registry, stores the listener and starts the
// finalization sweeper. When the registry is no longer needed, Close must
// be called.
func Open(listener FinalizationListener, opts ...Option) *Registry {
	r := &Registry{
		identifiers:       make(map[weakRef]int64),
		weakInstances:     make(map[int64]*weakSlot),
		strongInstances:   make(map[int64]any),
		weakToIdentifiers: make(map[*weakSlot]int64),
		alloc:             newAllocator(),
		listener:          listener,
		interval:          DefaultSweepInterval,
		stop:              make(chan struct{}),
		done:              make(chan struct{}),
		eventWorkers:      defaultEventWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.events = newDispatcher(r.eventWorkers)
	go r.sweepLoop()
	return r
}

// AddGuestCreated adds a new instance that was instantiated from the guest
// runtime, under the guest-supplied identifier.
//
// The same instance can be added multiple times, but each identifier must
// be unique. This allows two instances that are value-equal to both be
// added: identity, never equality, keys the registry.
//
// A negative identifier or an identifier that is already present is a
// contract violation and returns a structured error. If the registry is
// closed, the addition is ignored and a warning is logged.
func AddGuestCreated[T any](r *Registry, obj *T, identifier int64) error {
	if obj == nil {
		return errors.InvalidInput(errors.PhaseRegister, "instance must not be nil")
	}
	ref := makeRef(obj)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.warnClosed("AddGuestCreated")
		return nil
	}
	slot, err := r.addLocked(obj, ref, identifier)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	runtime.AddCleanup(obj, r.enqueueFinalized, slot)
	r.emit(Event{Type: EventRegistered, Identifier: identifier, Origin: originOf(identifier)})
	return nil
}

// AddHostCreated adds a new instance that was instantiated from the host
// platform and returns the identifier allocated for it.
//
// The instance must be unique to all other added instances; re-adding it
// is a contract violation. If the registry is closed, ClosedIdentifier is
// returned and a warning is logged.
func AddHostCreated[T any](r *Registry, obj *T) (int64, error) {
	if obj == nil {
		return 0, errors.InvalidInput(errors.PhaseRegister, "instance must not be nil")
	}
	ref := makeRef(obj)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.warnClosed("AddHostCreated")
		return ClosedIdentifier, nil
	}
	if _, ok := r.identifiers[ref]; ok {
		r.mu.Unlock()
		return 0, errors.AlreadyRegistered(fmt.Sprintf("%T", obj))
	}
	identifier := r.alloc.allocate()
	slot, err := r.addLocked(obj, ref, identifier)
	r.mu.Unlock()
	if err != nil {
		return 0, err
	}

	runtime.AddCleanup(obj, r.enqueueFinalized, slot)
	r.emit(Event{Type: EventRegistered, Identifier: identifier, Origin: bridge.OriginHost})
	return identifier, nil
}

// addLocked installs the identity mapping, weak slot, reverse mapping and
// strong slot as one atomic unit. Callers hold r.mu.
func (r *Registry) addLocked(obj any, ref weakRef, identifier int64) (*weakSlot, error) {
	if identifier < 0 {
		return nil, errors.NegativeIdentifier(errors.PhaseRegister, identifier)
	}
	if _, ok := r.weakInstances[identifier]; ok {
		return nil, errors.DuplicateIdentifier(errors.PhaseRegister, identifier)
	}

	slot := &weakSlot{ref: ref}
	r.identifiers[ref] = identifier
	r.weakInstances[identifier] = slot
	r.weakToIdentifiers[slot] = identifier
	r.strongInstances[identifier] = obj
	return slot, nil
}

// IdentifierForStrongReference retrieves the identifier paired with an
// instance, or false if the instance was never registered.
//
// Deliberate side effect: if the registry holds only a weak handle to the
// instance, a new strong reference is installed so the instance stays
// alive while the identifier travels to the guest runtime. The caller is
// responsible for removing that strong reference again with Remove once
// the guest has confirmed its own reference; otherwise the instance leaks
// until the registry closes.
func IdentifierForStrongReference[T any](r *Registry, obj *T) (int64, bool) {
	if obj == nil {
		return 0, false
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.warnClosed("IdentifierForStrongReference")
		return 0, false
	}
	identifier, ok := r.identifiers[makeRef(obj)]
	if ok {
		r.strongInstances[identifier] = obj
	}
	r.mu.Unlock()

	if ok {
		r.emit(Event{Type: EventRevived, Identifier: identifier, Origin: originOf(identifier)})
	}
	return identifier, ok
}

// Remove removes the strong reference paired with identifier, if present,
// and returns the instance. The weak handle and identity mapping are left
// untouched: the instance remains retrievable with Get until it is
// actually collected.
func (r *Registry) Remove(identifier int64) (any, bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.warnClosed("Remove")
		return nil, false
	}
	obj, ok := r.strongInstances[identifier]
	if ok {
		delete(r.strongInstances, identifier)
	}
	r.mu.Unlock()

	if ok {
		r.emit(Event{Type: EventStrongRemoved, Identifier: identifier, Origin: originOf(identifier)})
	}
	return obj, ok
}

// Get retrieves the instance associated with identifier through its weak
// handle. It returns false if the identifier is absent, the instance has
// already been collected, or the registry is closed.
func (r *Registry) Get(identifier int64) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.warnClosed("Get")
		return nil, false
	}
	slot, ok := r.weakInstances[identifier]
	if !ok {
		return nil, false
	}
	v := slot.ref.value()
	if v == nil {
		return nil, false
	}
	return v, true
}

// Contains reports whether the registry holds the given instance.
// It returns false if the registry is closed.
func Contains[T any](r *Registry, obj *T) bool {
	if obj == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.warnClosed("Contains")
		return false
	}
	_, ok := r.identifiers[makeRef(obj)]
	return ok
}

// Clear removes all instances from the registry without closing it.
// The registry is empty and ready for new registrations after this call
// returns.
func (r *Registry) Clear() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.warnClosed("Clear")
		return
	}
	r.clearAllLocked()
	r.mu.Unlock()

	r.emit(Event{Type: EventCleared})
}

func (r *Registry) clearAllLocked() {
	r.identifiers = make(map[weakRef]int64)
	r.weakInstances = make(map[int64]*weakSlot)
	r.strongInstances = make(map[int64]any)
	r.weakToIdentifiers = make(map[*weakSlot]int64)
}

// Close cancels the pending sweeps, transitions the registry to closed and
// releases all state. Methods called after Close return their documented
// empty results and log a warning. Close is idempotent; cancellation of
// the sweeper is synchronous.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.clearAllLocked()
		r.mu.Unlock()

		close(r.stop)
		<-r.done

		r.events.close()
	})
}

// IsClosed reports whether the registry has released its resources and is
// no longer usable.
func (r *Registry) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Len returns the number of identifiers currently registered, including
// identifiers whose instance has been collected but not yet swept.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.weakInstances)
}

// PendingFinalizations returns the number of collected weak handles
// awaiting the next sweep.
func (r *Registry) PendingFinalizations() int {
	r.pendMu.Lock()
	defer r.pendMu.Unlock()
	return len(r.pending)
}

// Info describes one registered identifier for diagnostics.
type Info struct {
	Identifier int64
	Origin     bridge.Origin
	Strong     bool
	Alive      bool
}

// Instances returns a snapshot of the registered identifiers. The order is
// unspecified.
func (r *Registry) Instances() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	infos := make([]Info, 0, len(r.weakInstances))
	for id, slot := range r.weakInstances {
		_, strong := r.strongInstances[id]
		infos = append(infos, Info{
			Identifier: id,
			Origin:     originOf(id),
			Strong:     strong,
			Alive:      slot.ref.value() != nil,
		})
	}
	return infos
}

// Subscribe adds an observer for registry lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.events.subscribe(o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.events.unsubscribe(o)
}

func (r *Registry) emit(e Event) {
	r.events.emit(e)
}

func (r *Registry) warnClosed(op string) {
	Logger().Warn(closedWarning, zap.String("op", op))
}

func originOf(identifier int64) bridge.Origin {
	if identifier >= bridge.MinHostIdentifier {
		return bridge.OriginHost
	}
	return bridge.OriginGuest
}
