// Package tracer sets up OpenTelemetry tracing.
//
// Spans are started around each ingestion run and its stages; the trace
// context is copied into audit messages with GetCarrier so consumers can
// join the trace.
//
// # Configuration
//
//	TRACER_SERVICE_NAME=catalog-ingest
//	APP_ENV=production
//	TRACER_ENABLE_EXPORT=true
//	OTEL_EXPORTER_OTLP_ENDPOINT=http://otel-collector:4318
package tracer
