package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Client.
//
// Dependencies required by this module:
// - An embedding.Config instance must be available in the dependency injection container
var FXModule = fx.Module(
	"embedding",
	fx.Provide(NewClient),
	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle releases idle connections on shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
