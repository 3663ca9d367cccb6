package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry and the HTTP server that
// exposes it.
type Metrics struct {
	// Server serves /metrics.
	Server *http.Server

	// Registry is the service's own registry; collectors are registered
	// through registerer so they carry the service label.
	Registry   *prometheus.Registry
	registerer prometheus.Registerer
	namespace  string

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the registry, wraps it with a constant service label
// and registers the HTTP request metrics.
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "catalog-ingest"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	if cfg.Address == "" {
		cfg.Address = DefaultMetricsAddress
	}

	registry := prometheus.NewRegistry()
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrappedRegistry,
		namespace:  cfg.Namespace,
	}

	m.requestsTotal = createCounterVec(cfg.Namespace, "requests_total", "Total number of processed HTTP requests", []string{"status"})
	m.requestDuration = createHistogramVec(cfg.Namespace, "request_duration_seconds", "Duration of HTTP requests in seconds", []string{"endpoint"}, prometheus.DefBuckets)
	wrappedRegistry.MustRegister(m.requestsTotal, m.requestDuration)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return m
}
