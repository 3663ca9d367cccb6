package tracer

// Config controls the OpenTelemetry tracer provider. The OTLP exporter
// reads its endpoint from the standard OTEL_EXPORTER_OTLP_* variables.
type Config struct {
	ServiceName  string `envconfig:"TRACER_SERVICE_NAME" default:"catalog-ingest"`
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
	EnableExport bool   `envconfig:"TRACER_ENABLE_EXPORT" default:"false"`
}
