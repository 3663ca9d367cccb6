package embedding

import (
	"fmt"
	"time"
)

// Config points the client at an OpenAI-compatible inference service.
// Endpoint is the API root; "/embeddings" is appended by the client.
type Config struct {
	Endpoint     string        `envconfig:"EMBEDDING_ENDPOINT"`
	ServiceToken string        `envconfig:"EMBEDDING_SERVICE_TOKEN"`
	Model        string        `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	HTTPTimeout  time.Duration `envconfig:"EMBEDDING_HTTP_TIMEOUT" default:"30s"`

	// Dimensions, when non-zero, is sent to the service and enforced on responses.
	Dimensions int `envconfig:"EMBEDDING_DIMENSIONS" default:"0"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT")
	}
	if c.ServiceToken == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_SERVICE_TOKEN")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	return nil
}
