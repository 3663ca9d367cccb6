// Package logger provides structured logging for the catalog ingestion service.
//
// The package wraps Uber's zap with a small, uniform call shape: every method
// takes a message, an optional error and any number of field maps.
//
//	log := logger.NewLoggerClient(logger.Config{Level: "info", ServiceName: "catalog-ingest"})
//	log.Info("run started", nil, map[string]interface{}{"provider_id": id})
//
// Components accept the Logger interface. *LoggerClient is the concrete
// implementation provided by FXModule.
//
// # Context-Aware Logging
//
// When EnableTracing is set, the *WithContext variants add the following
// fields if ctx carries a valid OpenTelemetry span:
//   - trace_id
//   - span_id
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # Log level (debug, info, warning, error)
//	LOGGER_ENABLE_TRACING=true      # Enable distributed tracing integration
//	SERVICE_NAME=catalog-ingest     # Value of the "service" field
//
// # Thread Safety
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
