// Package metrics exposes instance registry activity to Prometheus.
//
// The Collector plugs into both sides: it observes registry events for the
// counters and reads the registry directly for the scrape-time gauges.
//
//	r := instance.Open(listener)
//	c := metrics.NewCollector(r)
//	r.Subscribe(c)
//	prometheus.MustRegister(c)
//
// Exposed series:
//
//	bridge_instances_registered_total{origin}  registrations by runtime
//	bridge_instances_finalized_total           identifiers released by the sweeper
//	bridge_strong_references_removed_total     Remove calls that dropped a reference
//	bridge_strong_references_revived_total     identifier lookups that reinstalled one
//	bridge_registry_clears_total               Clear calls
//	bridge_instances_live                      registered identifiers (gauge)
//	bridge_finalizations_pending               collected, not yet swept (gauge)
package metrics
