package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"
)

// FXModule provides *Tracer and flushes pending spans on shutdown.
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return cfg.Tracer }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(NewClient),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the tracer provider down when the application stops.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
