package qdrant

import (
	"context"
	"fmt"
	"log"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// pointsAPI is the subset of *qdrant.Client used by this package.
type pointsAPI interface {
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	ListCollections(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Delete(ctx context.Context, request *qdrant.DeletePoints) (*qdrant.UpdateResult, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
	Close() error
}

// QdrantClient wraps the official gRPC client.
type QdrantClient struct {
	api pointsAPI
	cfg Config
}

// NewQdrantClient connects to Qdrant and verifies the server answers a health check.
func NewQdrantClient(cfg Config) (*QdrantClient, error) {
	port := cfg.Port
	if port == 0 {
		port = 6334
	}
	log.Printf("[Qdrant] Connecting to endpoint: %s:%d", cfg.Endpoint, port)

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	qc := newWithAPI(client, cfg)
	if err := qc.healthCheck(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Println("[Qdrant] Client connected successfully")
	return qc, nil
}

func newWithAPI(api pointsAPI, cfg Config) *QdrantClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &QdrantClient{api: api, cfg: cfg}
}

func (c *QdrantClient) healthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return classify("health_check", err)
	}

	log.Printf("[Qdrant] Health check passed (title=%s, version=%s, endpoint=%s)", resp.GetTitle(), resp.GetVersion(), c.cfg.Endpoint)
	return nil
}

// Collection returns the configured collection name.
func (c *QdrantClient) Collection() string {
	return c.cfg.Collection
}

// Close releases the underlying gRPC connection.
func (c *QdrantClient) Close() error {
	log.Println("[Qdrant] closing client")
	return c.api.Close()
}

func (c *QdrantClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.Timeout)
}
