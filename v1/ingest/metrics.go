package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
)

// Metrics are the pipeline's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs     *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight *prometheus.GaugeVec
}

func NewMetrics(c metrics.MetricsCollector) *Metrics {
	return &Metrics{
		runs: c.CreateCounter("ingest_runs_total",
			"Finished ingestion runs by outcome", []string{"outcome"}),
		attempts: c.CreateCounter("ingest_remote_attempts_total",
			"Calls to the embedding provider and vector index by result", []string{"result"}),
		duration: c.CreateHistogram("ingest_run_duration_seconds",
			"Wall time of ingestion runs", []string{"outcome"},
			[]float64{1, 5, 15, 30, 60, 120, 300, 600, 1800}),
		inflight: c.CreateGauge("ingest_runs_in_flight",
			"Runs currently holding a concurrency slot", nil),
	}
}

func (m *Metrics) observeRun(outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(outcome)).Inc()
	m.duration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (m *Metrics) remoteAttempt(result string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(result).Inc()
}

func (m *Metrics) runStarted() {
	if m != nil {
		m.inflight.WithLabelValues().Inc()
	}
}

func (m *Metrics) runFinished() {
	if m != nil {
		m.inflight.WithLabelValues().Dec()
	}
}
