// Package metrics exposes Prometheus metrics from an isolated registry.
//
// Every collector is registered through a registerer that adds the
// constant label service="<ServiceName>", and every name is prefixed with
// the configured namespace. The package ships HTTP request metrics; other
// packages create their own through CreateCounter, CreateHistogram and
// CreateGauge:
//
//	runs := m.CreateCounter("ingest_runs_total", "Finished ingestion runs", []string{"outcome"})
//	runs.WithLabelValues("activated").Inc()
//
// With fx, FXModule provides *Metrics and starts the /metrics server on
// METRICS_ADDRESS for the lifetime of the application.
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=catalog_ingest
//	METRICS_SERVICE_NAME=catalog-ingest
package metrics
