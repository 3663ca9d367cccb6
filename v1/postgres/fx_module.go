package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides *Postgres and the Client interface and ties the
// connection monitoring loops to the application lifecycle.
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresClientWithDI,
		fx.Annotate(
			ProvideClient,
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// ProvideClient exposes the concrete *Postgres as Client.
func ProvideClient(pg *Postgres) *Postgres {
	return pg
}

// PostgresParams groups the dependencies needed to create a Postgres Client via dependency injection.
type PostgresParams struct {
	fx.In

	Config Config
}

// NewPostgresClientWithDI creates a new Postgres Client using dependency injection.
func NewPostgresClientWithDI(params PostgresParams) (*Postgres, error) {
	return NewPostgres(params.Config)
}

// PostgresLifeCycleParams groups the dependencies needed for Postgres lifecycle management.
type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle starts MonitorConnection and RetryConnection on
// start and closes the pool on stop after both loops have returned.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	loopCtx, cancel := context.WithCancel(context.Background())

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(loopCtx)
			}()
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(loopCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			wg.Wait()
			return params.Postgres.GracefulShutdown()
		},
	})
}
