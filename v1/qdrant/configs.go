package qdrant

import (
	"time"
)

// Config holds the connection settings for the Qdrant gRPC endpoint.
type Config struct {
	// Endpoint is the hostname of the Qdrant server.
	Endpoint string `yaml:"endpoint" envconfig:"QDRANT_ENDPOINT" default:"localhost"`

	// Port is the gRPC port (6334 by default, not the 6333 REST port).
	Port int `yaml:"port" envconfig:"QDRANT_PORT" default:"6334"`

	// ApiKey is sent with every request when set.
	ApiKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	// UseTLS enables transport security.
	UseTLS bool `yaml:"use_tls" envconfig:"QDRANT_USE_TLS"`

	// Collection is the collection holding catalog item vectors.
	Collection string `yaml:"collection" envconfig:"QDRANT_COLLECTION" default:"catalog_items"`

	// VectorSize is the dimension used when the collection has to be created.
	VectorSize uint64 `yaml:"vector_size" envconfig:"QDRANT_VECTOR_SIZE" default:"1536"`

	// Timeout bounds each individual request.
	Timeout time.Duration `yaml:"timeout" envconfig:"QDRANT_TIMEOUT" default:"10s"`

	// CheckCompatibility enables the client/server version check on connect.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY" default:"true"`
}

// DefaultConfig returns a Config pointing at a local Qdrant instance.
func DefaultConfig() Config {
	return Config{
		Endpoint:           "localhost",
		Port:               6334,
		Collection:         "catalog_items",
		VectorSize:         1536,
		Timeout:            10 * time.Second,
		CheckCompatibility: true,
	}
}

// WithApiKey sets the API key.
func (c Config) WithApiKey(key string) Config {
	c.ApiKey = key
	return c
}

// WithCollection sets the collection name.
func (c Config) WithCollection(name string) Config {
	c.Collection = name
	return c
}
