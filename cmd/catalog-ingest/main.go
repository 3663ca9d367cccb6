// Command catalog-ingest serves the catalog upload API and runs the
// ingestion pipeline behind it.
package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/catalog-ingest/v1/embedding"
	"github.com/Aleph-Alpha/catalog-ingest/v1/httpapi"
	"github.com/Aleph-Alpha/catalog-ingest/v1/ingest"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
	"github.com/Aleph-Alpha/catalog-ingest/v1/minio"
	"github.com/Aleph-Alpha/catalog-ingest/v1/mongo"
	"github.com/Aleph-Alpha/catalog-ingest/v1/postgres"
	"github.com/Aleph-Alpha/catalog-ingest/v1/qdrant"
	"github.com/Aleph-Alpha/catalog-ingest/v1/redis"
	"github.com/Aleph-Alpha/catalog-ingest/v1/tracer"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("catalog-ingest: %v", err)
	}

	fx.New(newApp(cfg)).Run()
}

func newApp(cfg config) fx.Option {
	return fx.Options(
		fx.Supply(
			cfg.Logger,
			cfg.Postgres,
			cfg.Mongo,
			cfg.Qdrant,
			cfg.Redis,
			cfg.Rabbit,
			cfg.Kafka,
			cfg.Minio,
			cfg.Embedding,
			cfg.Tracer,
			cfg.Metrics,
			cfg.Ingest,
			cfg.HTTP,
			cfg.Audit,
		),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),

		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		postgres.FXModule,
		mongo.FXModule,
		qdrant.FXModule,
		redis.FXModule,
		minio.FXModule,
		embedding.FXModule,
		auditModule(cfg.Audit),

		catalogModule,
		ingest.FXModule,
		httpapi.FXModule,
	)
}
