package kafka

import "time"

const (
	DefaultRequiredAcks = -1 // all in-sync replicas
	DefaultMaxAttempts  = 3
	DefaultWriteTimeout = 10 * time.Second
)

// Config defines the Kafka producer used for audit events.
type Config struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"catalog-audit"`

	// RequiredAcks is -1 (all), 0 (none) or 1 (leader)
	RequiredAcks int           `envconfig:"KAFKA_REQUIRED_ACKS" default:"-1"`
	MaxAttempts  int           `envconfig:"KAFKA_MAX_ATTEMPTS" default:"3"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`

	// CompressionCodec is one of gzip, snappy, lz4, zstd; empty disables compression
	CompressionCodec string `envconfig:"KAFKA_COMPRESSION"`

	// Embedded so envconfig reads their full KAFKA_ names.
	TLSConfig
	SASLConfig
}

// TLSConfig enables TLS towards the brokers.
type TLSConfig struct {
	TLSEnabled         bool   `envconfig:"KAFKA_TLS_ENABLED" default:"false"`
	CACertPath         string `envconfig:"KAFKA_TLS_CA_CERT"`
	InsecureSkipVerify bool   `envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY" default:"false"`
}

// SASLConfig configures broker authentication.
type SASLConfig struct {
	SASLEnabled bool `envconfig:"KAFKA_SASL_ENABLED" default:"false"`
	// Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512
	Mechanism string `envconfig:"KAFKA_SASL_MECHANISM" default:"PLAIN"`
	Username  string `envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `envconfig:"KAFKA_SASL_PASSWORD"`
}
