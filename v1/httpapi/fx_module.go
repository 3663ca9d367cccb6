package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/providers"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/versions"
	"github.com/Aleph-Alpha/catalog-ingest/v1/ingest"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
)

// FXModule provides the router and HTTP server and runs the server for the
// application's lifetime.
//
// Dependencies required by this module:
//   - httpapi.Config, *ingest.Runner, *versions.Ledger, *providers.Directory, logger.Logger
//   - optionally *metrics.Metrics
var FXModule = fx.Module("httpapi",
	fx.Provide(
		newFXHandlers,
		newFXRouter,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

func newFXHandlers(runner *ingest.Runner, ledger *versions.Ledger, dir *providers.Directory, log logger.Logger) *Handlers {
	return NewHandlers(runner, ledger, dir, log)
}

type routerParams struct {
	fx.In

	Config   Config
	Handlers *Handlers
	Logger   logger.Logger
	Metrics  *metrics.Metrics `optional:"true"`
}

func newFXRouter(p routerParams) http.Handler {
	var collector metrics.MetricsCollector
	if p.Metrics != nil {
		collector = p.Metrics
	}
	return NewRouter(p.Config, p.Handlers, p.Logger, collector)
}

// RegisterServerLifecycle binds the listener on start so address errors
// fail startup, and shuts the server down gracefully on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, srv *http.Server, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", nil, map[string]interface{}{"address": srv.Addr})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down HTTP server", nil, nil)
			return srv.Shutdown(ctx)
		},
	})
}
