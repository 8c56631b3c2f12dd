package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for CSPC client card lookups.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
}

// New registers the metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_cspc_lookups_total",
			Help: "CSPC client card lookups by outcome",
		}, []string{"outcome"}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "escrow_cspc_lookup_duration_seconds",
			Help:    "Duration of CSPC client card lookups, cache included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_cspc_cache_hits_total",
			Help: "Client card cache hits by backend",
		}, []string{"backend"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_cspc_cache_misses_total",
			Help: "Client card cache misses by backend",
		}, []string{"backend"}),
	}
}

// RecordLookup counts one lookup outcome and its latency.
// Call with time.Now() taken at the start of the lookup.
func (m *Metrics) RecordLookup(outcome string, start time.Time) {
	m.LookupsTotal.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordCacheHit(backend string) {
	m.CacheHits.WithLabelValues(backend).Inc()
}

func (m *Metrics) RecordCacheMiss(backend string) {
	m.CacheMisses.WithLabelValues(backend).Inc()
}
