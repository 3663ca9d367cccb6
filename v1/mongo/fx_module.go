package mongo

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *MongoClient and disconnects it on shutdown.
//
// Dependencies required by this module:
// - A mongo.Config instance must be available in the dependency injection container
var FXModule = fx.Module("mongo",
	fx.Provide(NewClient),
	fx.Invoke(RegisterMongoLifecycle),
)

// RegisterMongoLifecycle pings on start and disconnects on stop.
func RegisterMongoLifecycle(lc fx.Lifecycle, client *MongoClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
}
