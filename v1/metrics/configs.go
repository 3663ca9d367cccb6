package metrics

// DefaultMetricsAddress is used when Address is empty.
const DefaultMetricsAddress = ":9090"

// Config defines the Prometheus metrics server.
type Config struct {
	// Address is where the /metrics endpoint listens, e.g. ":9090".
	Address string `envconfig:"METRICS_ADDRESS" default:":9090"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS" default:"true"`

	// Namespace prefixes every metric created through this package.
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"catalog_ingest"`

	// ServiceName becomes the constant "service" label on every metric.
	ServiceName string `envconfig:"METRICS_SERVICE_NAME" default:"catalog-ingest"`
}
