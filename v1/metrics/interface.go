package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is implemented by *Metrics.
type MetricsCollector interface {
	IncrementRequests(status string)
	RecordRequestDuration(start time.Time, endpoint string)

	CreateCounter(name, help string, labels []string) *prometheus.CounterVec
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
