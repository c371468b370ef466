// Package instance implements the bridge's instance registry: the shared
// table that correlates host-native objects with the integer identifiers
// the guest runtime uses to address their mirrored proxies.
//
// # Dual References
//
// Every registered instance is held two ways under the same identifier: a
// strong reference that unconditionally keeps it alive, and a weak handle
// that observes it without extending its lifetime. The strong reference is
// installed at registration and removed with Remove once the guest signals
// disposal; the weak handle stays until the instance is actually collected.
// An identity mapping (object to identifier) and a reverse mapping (weak
// handle to identifier) complete the bookkeeping. All four mappings are
// mutated as one atomic unit, so a reader never observes a weak slot
// without its matching identity entry.
//
// # Strong Reference Revival
//
// IdentifierForStrongReference is a query with a deliberate, documented
// side effect: if the registry still knows the instance, it reinstalls the
// strong reference before returning the identifier. The contract is that
// once an identifier is handed to the guest runtime, the instance must not
// be collected before the guest re-establishes its own reference. The
// caller MUST balance every such call with an eventual Remove, or the
// instance stays alive until the registry closes. Do not treat this
// operation as a read.
//
// # Finalization
//
// The registry relies on the Go collector to decide when an instance has
// become unreachable. Weak slots are stdlib weak pointers, and a runtime
// cleanup per registration enqueues the dead handle for the sweeper, the
// native expression of a managed runtime's reference queue. A
// background sweeper drains that queue on a fixed cadence (30s by
// default), removes the identifier's mappings and reports it to the
// FinalizationListener exactly once. Identifiers of collected instances
// are therefore released asynchronously, never synchronously with the
// operation that dropped the last reference.
//
// # Identifier Ranges
//
// Guest-created instances arrive with their identifier, expected in
// [0, 65536). Host-created instances are assigned identifiers from 65536
// upward, monotonically, never reused.
//
// # Closing
//
// Close stops the sweeper synchronously, releases every held instance and
// turns all further calls into logged no-ops. A call racing a close is an
// expected wind-down signal, not an error: it returns the documented empty
// result instead of failing.
package instance
