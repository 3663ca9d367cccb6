package kafka

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *KafkaClient and flushes it on shutdown.
var FXModule = fx.Module("kafka",
	fx.Provide(NewClient),
	fx.Invoke(RegisterKafkaLifecycle),
)

func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
