package rabbit

import "time"

// Config defines the RabbitMQ connection and the exchange audit events are
// published to.
type Config struct {
	Connection
	Channel
}

// Connection contains the parameters needed to reach the broker.
type Connection struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     uint   `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"guest"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`

	// IsSSLEnabled switches the scheme to amqps
	IsSSLEnabled bool `envconfig:"RABBITMQ_SSL_ENABLED" default:"false"`

	// ServerName is checked against the broker certificate when SSL is enabled
	ServerName string `envconfig:"RABBITMQ_SERVER_NAME"`
}

// Channel configures the exchange messages are routed through.
type Channel struct {
	// ExchangeName is declared durable on connect
	ExchangeName string `envconfig:"RABBITMQ_EXCHANGE" default:"catalog.audit"`

	// ExchangeType is one of direct, fanout, topic or headers
	ExchangeType string `envconfig:"RABBITMQ_EXCHANGE_TYPE" default:"topic"`

	// ConfirmTimeout bounds how long Publish waits for a broker ack
	ConfirmTimeout time.Duration `envconfig:"RABBITMQ_CONFIRM_TIMEOUT" default:"5s"`

	// DelayToReconnect is the pause between reconnection attempts
	DelayToReconnect time.Duration `envconfig:"RABBITMQ_RECONNECT_DELAY" default:"1s"`
}
