package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient wraps the official driver client together with the
// configured database.
type MongoClient struct {
	cfg    Config
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to MongoDB and verifies the primary answers a ping.
//
// Example:
//
//	client, err := mongo.NewClient(mongo.Config{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "catalog",
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
func NewClient(cfg Config) (*MongoClient, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri cannot be empty")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database cannot be empty")
	}
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	log.Printf("INFO: Connected to MongoDB database %q", cfg.Database)

	return &MongoClient{
		cfg:    cfg,
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Collection returns a handle to name in the configured database.
func (m *MongoClient) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Ping checks the primary is reachable.
func (m *MongoClient) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes every pooled connection.
func (m *MongoClient) Disconnect(ctx context.Context) error {
	log.Println("INFO: Disconnecting from MongoDB")
	return m.client.Disconnect(ctx)
}
