package redis

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client with the helpers this service needs.
type RedisClient struct {
	client redis.UniversalClient
	cfg    Config
}

// NewClient creates a client for a standalone Redis instance and verifies
// the server answers PING.
func NewClient(cfg Config) (*RedisClient, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = DefaultPoolSize
	}

	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: defaultMinRetryWait,
		MaxRetryBackoff: defaultMaxRetryWait,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	log.Printf("INFO: connected to Redis at %s:%d (db %d)", cfg.Host, cfg.Port, cfg.DB)
	return &RedisClient{client: client, cfg: cfg}, nil
}

// Ping checks the connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Key applies the configured prefix.
func (r *RedisClient) Key(name string) string {
	return r.cfg.KeyPrefix + name
}

// Close closes the underlying connection pool.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
