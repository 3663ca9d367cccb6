package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Client computes one embedding per call against the inference service.
// It does not retry; callers decide based on the returned error.
type Client struct {
	provider *inferenceProvider
	model    string
	dims     int
}

// NewClient validates cfg and builds the client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}
	return &Client{
		provider: &inferenceProvider{
			baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
			serviceToken: cfg.ServiceToken,
			httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
		},
		model: cfg.Model,
		dims:  cfg.Dimensions,
	}, nil
}

// Embed returns the embedding of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.provider.create(ctx, c.model, c.dims, text)
	if err != nil {
		return nil, err
	}
	vec := vectors[0]
	if c.dims > 0 && len(vec) != c.dims {
		return nil, fmt.Errorf("embedding: expected %d dimensions, got %d", c.dims, len(vec))
	}
	return vec, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.provider.httpClient.CloseIdleConnections()
	return nil
}
