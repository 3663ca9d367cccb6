package ingest

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/items"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/locks"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/providers"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/uploads"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/vectors"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/versions"
	"github.com/Aleph-Alpha/catalog-ingest/v1/embedding"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
	"github.com/Aleph-Alpha/catalog-ingest/v1/tracer"
)

// FXModule provides the *Pipeline and the background *Runner, and drains
// in-flight runs on shutdown.
//
// Dependencies required by this module:
//   - ingest.Config
//   - the catalog stores: *providers.Directory, *uploads.Reader,
//     *versions.Ledger, *items.Store, *vectors.Index
//   - *embedding.Client, audit.Recorder, *locks.ProviderLock, logger.Logger
//   - optionally *metrics.Metrics and *tracer.Tracer
var FXModule = fx.Module("ingest",
	fx.Provide(
		newFXMetrics,
		NewPipelineFromParams,
		NewRunnerFromParams,
	),
	fx.Invoke(RegisterRunnerLifecycle),
)

// Params groups the pipeline's fx dependencies.
type Params struct {
	fx.In

	Config    Config
	Providers *providers.Directory
	Rows      *uploads.Reader
	Ledger    *versions.Ledger
	Items     *items.Store
	Vectors   *vectors.Index
	Embedder  *embedding.Client
	Audit     audit.Recorder
	Lock      *locks.ProviderLock
	Logger    logger.Logger
	Metrics   *Metrics
	Tracer    *tracer.Tracer `optional:"true"`
}

type metricsParams struct {
	fx.In

	Collector *metrics.Metrics `optional:"true"`
}

func newFXMetrics(p metricsParams) *Metrics {
	if p.Collector == nil {
		return nil
	}
	return NewMetrics(p.Collector)
}

func NewPipelineFromParams(p Params) *Pipeline {
	return NewPipeline(p.Config, Deps{
		Providers: p.Providers,
		Rows:      p.Rows,
		Ledger:    p.Ledger,
		Items:     p.Items,
		Vectors:   p.Vectors,
		Embedder:  p.Embedder,
		Audit:     p.Audit,
		Logger:    p.Logger,
		Metrics:   p.Metrics,
		Tracer:    p.Tracer,
	})
}

func NewRunnerFromParams(p Params, pipeline *Pipeline) *Runner {
	return NewRunner(p.Config, pipeline, p.Providers, p.Lock, p.Audit, p.Metrics, p.Logger)
}

// RegisterRunnerLifecycle waits for in-flight runs when the application stops.
func RegisterRunnerLifecycle(lc fx.Lifecycle, r *Runner, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("waiting for in-flight catalog ingestions", nil, nil)
			return r.Shutdown(ctx)
		},
	})
}
