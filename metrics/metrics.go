package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mirrorlink/bridge/instance"
)

const namespace = "bridge"

// Collector exposes registry activity as Prometheus metrics. It implements
// both prometheus.Collector and instance.Observer: subscribe it to a
// registry and register it with a Prometheus registerer.
//
// Counters track registry events as they happen; the live instance and
// pending finalization gauges are read from the registry at scrape time.
type Collector struct {
	registry *instance.Registry

	registeredTotal    *prometheus.CounterVec
	finalizedTotal     prometheus.Counter
	strongRemovedTotal prometheus.Counter
	revivedTotal       prometheus.Counter
	clearsTotal        prometheus.Counter

	liveDesc    *prometheus.Desc
	pendingDesc *prometheus.Desc
}

// NewCollector creates a collector reading scrape-time gauges from r.
func NewCollector(r *instance.Registry) *Collector {
	return &Collector{
		registry: r,
		registeredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_registered_total",
			Help:      "Instances registered, by originating runtime.",
		}, []string{"origin"}),
		finalizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_finalized_total",
			Help:      "Identifiers released after their instance was collected.",
		}),
		strongRemovedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strong_references_removed_total",
			Help:      "Strong references dropped via Remove.",
		}),
		revivedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strong_references_revived_total",
			Help:      "Strong references reinstalled by identifier lookups.",
		}),
		clearsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_clears_total",
			Help:      "Times the registry was cleared.",
		}),
		liveDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "instances_live"),
			"Identifiers currently registered.",
			nil, nil),
		pendingDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "finalizations_pending"),
			"Collected instances awaiting the next sweep.",
			nil, nil),
	}
}

// OnRegistryEvent implements instance.Observer.
func (c *Collector) OnRegistryEvent(e instance.Event) {
	switch e.Type {
	case instance.EventRegistered:
		c.registeredTotal.WithLabelValues(e.Origin.String()).Inc()
	case instance.EventFinalized:
		c.finalizedTotal.Inc()
	case instance.EventStrongRemoved:
		c.strongRemovedTotal.Inc()
	case instance.EventRevived:
		c.revivedTotal.Inc()
	case instance.EventCleared:
		c.clearsTotal.Inc()
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.registeredTotal.Describe(ch)
	ch <- c.finalizedTotal.Desc()
	ch <- c.strongRemovedTotal.Desc()
	ch <- c.revivedTotal.Desc()
	ch <- c.clearsTotal.Desc()
	ch <- c.liveDesc
	ch <- c.pendingDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registeredTotal.Collect(ch)
	ch <- c.finalizedTotal
	ch <- c.strongRemovedTotal
	ch <- c.revivedTotal
	ch <- c.clearsTotal
	ch <- prometheus.MustNewConstMetric(c.liveDesc, prometheus.GaugeValue,
		float64(c.registry.Len()))
	ch <- prometheus.MustNewConstMetric(c.pendingDesc, prometheus.GaugeValue,
		float64(c.registry.PendingFinalizations()))
}
