package health

import (
	"fmt"

	"github.com/heptiolabs/healthcheck"

	"github.com/mirrorlink/bridge/instance"
)

// RegistryOpen returns a check that fails once the registry is closed.
// A closed registry silently drops registrations, so a process that still
// serves bridge traffic with a closed registry is not ready.
func RegistryOpen(r *instance.Registry) healthcheck.Check {
	return func() error {
		if r.IsClosed() {
			return fmt.Errorf("instance registry is closed")
		}
		return nil
	}
}

// FinalizationBacklog returns a check that fails when more than maxBacklog
// collected instances are waiting for a sweep. A growing backlog means the
// sweeper has stalled or the sweep interval is far too long for the
// allocation rate.
func FinalizationBacklog(r *instance.Registry, maxBacklog int) healthcheck.Check {
	return func() error {
		if n := r.PendingFinalizations(); n > maxBacklog {
			return fmt.Errorf("%d finalizations pending, limit %d", n, maxBacklog)
		}
		return nil
	}
}

// Register wires the registry checks into a healthcheck handler: readiness
// tracks the lifecycle state, liveness tracks the finalization backlog.
func Register(h healthcheck.Handler, r *instance.Registry, maxBacklog int) {
	h.AddReadinessCheck("registry-open", RegistryOpen(r))
	h.AddLivenessCheck("finalization-backlog", FinalizationBacklog(r, maxBacklog))
}
