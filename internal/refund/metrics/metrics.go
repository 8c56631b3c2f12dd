package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Participant enrichment outcomes.
const (
	OutcomeEnriched    = "enriched"
	OutcomeErrorFilled = "error_filled"
	OutcomeSkipped     = "skipped"
)

type Metrics struct {
	ParticipantsTotal *prometheus.CounterVec
	PassDuration      prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ParticipantsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_refund_depositors_total",
			Help: "Depositor participants processed by the enrichment pass, by outcome",
		}, []string{"outcome"}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "escrow_refund_enrichment_duration_seconds",
			Help:    "Duration of one participant enrichment pass",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncOutcome(outcome string) {
	m.ParticipantsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePass(start time.Time) {
	m.PassDuration.Observe(time.Since(start).Seconds())
}
