package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors the diagnostics server exposes
// at GET /metrics, grounded on the teacher's pkg/api/metrics.go shape
// (CounterVec/HistogramVec/Gauge registered via promauto), retargeted
// from HTTP/DB-operation metrics to engine save/load attempt counters,
// per SPEC_FULL.md Expansion B.3.
type Metrics struct {
	registry *prometheus.Registry

	attemptsTotal      *prometheus.CounterVec
	attemptDuration    *prometheus.HistogramVec
	corruptionsTotal   prometheus.Counter
	journalQueryLookup prometheus.Histogram
	engineCounter      prometheus.Gauge
}

// NewMetrics creates and registers every collector against a private
// prometheus.Registry, not the global DefaultRegisterer the teacher's
// promauto calls use directly — a dedicated registry lets multiple
// Metrics instances (one per test, one per server process) coexist
// without the duplicate-registration panic promauto.NewXxx would raise
// against a shared default registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pstruct_engine_attempts_total",
				Help: "Total number of Load/Save attempts against the engine.",
			},
			[]string{"op", "status"},
		),
		attemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pstruct_engine_attempt_duration_seconds",
				Help:    "Duration of Load/Save attempts against the engine.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		corruptionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pstruct_engine_corruptions_total",
				Help: "Total number of slots rejected as structurally invalid or CRC-mismatched during Load.",
			},
		),
		journalQueryLookup: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pstruct_journal_query_duration_seconds",
				Help:    "Duration of journal query lookups served by GET /journal.",
				Buckets: prometheus.DefBuckets,
			},
		),
		engineCounter: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pstruct_engine_generation",
				Help: "Generation counter of the currently loaded record.",
			},
		),
	}
}

// Registry returns the private registry every collector above was
// registered against, for wiring into promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAttempt records one Load/Save attempt's outcome and duration.
func (m *Metrics) ObserveAttempt(op string, success bool, seconds float64) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.attemptsTotal.WithLabelValues(op, status).Inc()
	m.attemptDuration.WithLabelValues(op).Observe(seconds)
}

// ObserveCorruption increments the corruption counter.
func (m *Metrics) ObserveCorruption() {
	m.corruptionsTotal.Inc()
}

// ObserveJournalQuery records a journal query's duration.
func (m *Metrics) ObserveJournalQuery(seconds float64) {
	m.journalQueryLookup.Observe(seconds)
}

// SetGeneration sets the generation gauge to the engine's current
// counter.
func (m *Metrics) SetGeneration(counter uint32) {
	m.engineCounter.Set(float64(counter))
}
