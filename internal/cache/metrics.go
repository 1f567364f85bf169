package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by Synced.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Puts      prometheus.Counter
	Evictions prometheus.Counter

	Entries  prometheus.Gauge
	Capacity prometheus.Gauge
}

// NewMetrics creates cache metrics under namespace and registers them on reg.
//
// A nil reg leaves the collectors unregistered. Registering the same namespace
// twice on one registry panics, as with prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of lookups that found a cached value",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of lookups for keys not in the cache",
		}),
		Puts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "puts_total",
			Help:      "Total number of inserts and overwrites",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Total number of least recently used entries evicted",
		}),

		Entries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Number of entries currently cached",
		}),
		Capacity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "capacity",
			Help:      "Maximum number of entries the cache holds",
		}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) put() {
	if m != nil {
		m.Puts.Inc()
	}
}

func (m *Metrics) evict() {
	if m != nil {
		m.Evictions.Inc()
	}
}

func (m *Metrics) setEntries(n int) {
	if m != nil {
		m.Entries.Set(float64(n))
	}
}

func (m *Metrics) setCapacity(n int) {
	if m != nil {
		m.Capacity.Set(float64(n))
	}
}
