package qdrant

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *QdrantClient and makes sure the configured collection
// exists before the application starts serving.
var FXModule = fx.Module("qdrant",
	fx.Provide(NewQdrantClient),
	fx.Invoke(RegisterQdrantLifecycle),
)

// RegisterQdrantLifecycle ensures the collection on start and closes the
// connection on stop.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.EnsureCollection(ctx, client.Collection())
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
