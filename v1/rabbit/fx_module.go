package rabbit

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides *RabbitClient and keeps its connection alive for the
// lifetime of the application.
//
// Dependencies required by this module:
// - A rabbit.Config instance must be available in the dependency injection container
var FXModule = fx.Module("rabbit",
	fx.Provide(NewClient),
	fx.Invoke(RegisterRabbitLifecycle),
)

// RegisterRabbitLifecycle runs the reconnect loop on start and shuts the
// client down on stop.
func RegisterRabbitLifecycle(lc fx.Lifecycle, client *RabbitClient) {
	wg := &sync.WaitGroup{}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				client.RetryConnection()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			client.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}
