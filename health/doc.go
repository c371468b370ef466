// Package health provides liveness and readiness checks for the instance
// registry, built on the heptiolabs/healthcheck handler.
//
//	h := healthcheck.NewHandler()
//	health.Register(h, registry, 1024)
//	go http.ListenAndServe(":8086", h)
//
// The readiness check reports the registry's lifecycle state and the
// liveness check watches the finalization backlog, so an embedding process
// surfaces a stalled sweeper instead of leaking identifiers quietly.
package health
