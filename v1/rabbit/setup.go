package rabbit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConfirmed is returned when the broker nacks a published message.
var ErrNotConfirmed = errors.New("rabbit: message not confirmed by broker")

// RabbitClient publishes messages to one exchange with publisher confirms
// and reconnects when the broker drops the connection.
type RabbitClient struct {
	cfg Config

	// channel is replaced on reconnect; guard access with mu
	channel *amqp.Channel
	conn    *amqp.Connection
	mu      sync.RWMutex

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient connects to RabbitMQ and declares the configured exchange.
func NewClient(cfg Config) (*RabbitClient, error) {
	conn, err := newConnection(cfg)
	if err != nil {
		log.Printf("ERROR: error in connecting to rabbit: %v", err)
		return nil, err
	}

	ch, err := connectToChannel(conn, cfg)
	if err != nil {
		_ = conn.Close()
		log.Printf("ERROR: error in declaring channel: %v", err)
		return nil, err
	}

	return &RabbitClient{
		cfg:            cfg,
		conn:           conn,
		channel:        ch,
		shutdownSignal: make(chan struct{}),
	}, nil
}

func connectToChannel(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	if err = ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	err = ch.ExchangeDeclare(
		cfg.Channel.ExchangeName,
		cfg.Channel.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return ch, nil
}

func newConnection(cfg Config) (*amqp.Connection, error) {
	scheme := "amqp"
	amqpCfg := amqp.Config{Heartbeat: 2 * time.Second}
	if cfg.Connection.IsSSLEnabled {
		scheme = "amqps"
		amqpCfg.TLSClientConfig = &tls.Config{ServerName: cfg.Connection.ServerName}
	}

	url := fmt.Sprintf("%s://%s:%s@%s:%d/", scheme,
		cfg.Connection.User, cfg.Connection.Password, cfg.Connection.Host, cfg.Connection.Port)
	conn, err := amqp.DialConfig(url, amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbit: %w", err)
	}
	log.Println("INFO: Connected to Rabbit")
	return conn, nil
}

// RetryConnection watches the connection and re-dials after it closes,
// until GracefulShutdown is called.
func (rb *RabbitClient) RetryConnection() {
outerLoop:
	for {
		rb.mu.RLock()
		errChan := rb.conn.NotifyClose(make(chan *amqp.Error, 1))
		rb.mu.RUnlock()

		select {
		case <-rb.shutdownSignal:
			return
		case err := <-errChan:
			log.Printf("WARNING: RabbitMQ connection closed, retrying... %v", err)
		}

		for {
			select {
			case <-rb.shutdownSignal:
				return
			default:
			}

			conn, err := newConnection(rb.cfg)
			if err != nil {
				log.Printf("ERROR: RabbitMQ reconnection failed: %v", err)
				time.Sleep(rb.cfg.Channel.DelayToReconnect)
				continue
			}
			ch, err := connectToChannel(conn, rb.cfg)
			if err != nil {
				_ = conn.Close()
				log.Printf("ERROR: Failed to re-establish RabbitMQ channel: %v", err)
				time.Sleep(rb.cfg.Channel.DelayToReconnect)
				continue
			}

			rb.mu.Lock()
			rb.conn = conn
			rb.channel = ch
			rb.mu.Unlock()
			log.Println("INFO: Successfully reconnected to RabbitMQ")
			continue outerLoop
		}
	}
}

// Publish sends body to the exchange under routingKey and waits for the
// broker confirm. Headers typically carry trace propagation fields.
func (rb *RabbitClient) Publish(ctx context.Context, routingKey string, body []byte, headers map[string]interface{}) error {
	rb.mu.RLock()
	ch := rb.channel
	rb.mu.RUnlock()

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx,
		rb.cfg.Channel.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Headers:      amqp.Table(headers),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", rb.cfg.Channel.ExchangeName, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, rb.cfg.Channel.ConfirmTimeout)
	defer cancel()
	acked, err := confirm.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for publisher confirm: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

// GracefulShutdown stops the reconnect loop and closes the channel and connection.
func (rb *RabbitClient) GracefulShutdown() {
	rb.closeShutdownOnce.Do(func() {
		close(rb.shutdownSignal)
	})

	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.channel != nil {
		if err := rb.channel.Close(); err != nil {
			log.Printf("WARNING: failed to close rabbit channel: %v", err)
		}
	}
	if rb.conn != nil && !rb.conn.IsClosed() {
		if err := rb.conn.Close(); err != nil {
			log.Printf("WARNING: failed to close rabbit connection: %v", err)
		}
	}
}
