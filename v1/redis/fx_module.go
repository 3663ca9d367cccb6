package redis

import (
	"context"
	"log"

	"go.uber.org/fx"
)

// FXModule provides *RedisClient and closes it on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    redis.FXModule,
//	    fx.Provide(func() redis.Config { return cfg.Redis }),
//	)
var FXModule = fx.Module("redis",
	fx.Provide(NewClient),
	fx.Invoke(RegisterRedisLifecycle),
)

// RegisterRedisLifecycle closes the connection pool when the application stops.
func RegisterRedisLifecycle(lc fx.Lifecycle, client *RedisClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: closing Redis client")
			return client.Close()
		},
	})
}
