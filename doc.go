// Package bridge provides the shared contracts for a two-runtime plugin
// bridge: a host runtime that executes native platform code and a guest
// runtime that holds mirrored proxy objects addressed by integer
// identifiers.
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	bridge/          Root package with the identifier range contract
//	├── instance/    Instance registry: identifiers, dual references, finalization
//	├── delegate/    Host delegate registration and cross-runtime dispatch
//	├── errors/      Structured error types for debugging
//	├── metrics/     Prometheus collector for registry lifecycle events
//	└── health/      Liveness and readiness checks for the registry
//
// # Quick Start
//
// Open a registry and track a host-created object:
//
//	reg := instance.Open(instance.FinalizationListenerFunc(func(id int64) {
//	    fmt.Printf("instance %d finalized\n", id)
//	}))
//	defer reg.Close()
//
//	id, err := instance.AddHostCreated(reg, webView)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, when the guest signals disposal:
//	reg.Remove(id)
//
// # Identifier Ranges
//
// Objects are created independently on both sides of the bridge, so each
// side allocates from a disjoint range. Guest-originated identifiers lie in
// [0, 65536); host-originated identifiers lie in [65536, 2^63) and are
// allocated monotonically, never reused. An identifier outside its expected
// range for its origin is a protocol violation.
//
// # Thread Safety
//
// The instance registry is safe for concurrent use from both runtime
// dispatch threads and its own background sweeper. Finalization listeners
// are invoked outside registry locks, so they may call back into the
// registry without deadlocking.
package bridge
