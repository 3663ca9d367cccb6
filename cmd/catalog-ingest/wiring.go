package main

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
	"github.com/Aleph-Alpha/catalog-ingest/v1/ingest"
	"github.com/Aleph-Alpha/catalog-ingest/v1/kafka"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/minio"
	"github.com/Aleph-Alpha/catalog-ingest/v1/mongo"
	"github.com/Aleph-Alpha/catalog-ingest/v1/qdrant"
	"github.com/Aleph-Alpha/catalog-ingest/v1/rabbit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/redis"
	"github.com/Aleph-Alpha/catalog-ingest/v1/tracer"
)

// catalogModule adapts the infrastructure clients into the catalog stores.
var catalogModule = fx.Module("catalog",
	fx.Provide(
		providers.NewDirectory,
		versions.NewLedger,
		func(m *mongo.MongoClient) *items.Store {
			return items.NewStore(m.Collection(items.CollectionName))
		},
		func(q *qdrant.QdrantClient) *vectors.Index {
			return vectors.NewIndex(q)
		},
		func(m *minio.MinioClient) *uploads.Reader {
			return uploads.NewReader(m)
		},
		func(r *redis.RedisClient, cfg ingest.Config, log logger.Logger) *locks.ProviderLock {
			return locks.NewProviderLock(locks.NewRedisLocker(r), cfg.LockTTL, cfg.LockWait, log)
		},
	),
	fx.Invoke(registerMigrations),
)

// registerMigrations prepares the schemas before the HTTP server accepts uploads.
func registerMigrations(lc fx.Lifecycle, dir *providers.Directory, ledger *versions.Ledger, store *items.Store, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := dir.Migrate(); err != nil {
				return err
			}
			if err := ledger.Migrate(); err != nil {
				return err
			}
			if err := store.EnsureIndexes(ctx); err != nil {
				return err
			}
			log.Info("catalog schemas ready", nil, nil)
			return nil
		},
	})
}

// auditModule publishes audit events over the configured broker.
func auditModule(cfg auditConfig) fx.Option {
	var transport fx.Option
	switch cfg.Transport {
	case transportKafka:
		transport = fx.Options(
			kafka.FXModule,
			fx.Provide(func(c *kafka.KafkaClient) audit.Publisher { return audit.NewKafkaPublisher(c) }),
		)
	default:
		transport = fx.Options(
			rabbit.FXModule,
			fx.Provide(func(c *rabbit.RabbitClient) audit.Publisher { return audit.NewRabbitPublisher(c) }),
		)
	}

	return fx.Module("audit",
		transport,
		fx.Provide(
			newAuditSink,
			func(s *audit.Sink) audit.Recorder { return s },
		),
	)
}

type sinkParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Publisher audit.Publisher
	Logger    logger.Logger
	Config    auditConfig
	Tracer    *tracer.Tracer `optional:"true"`
}

// newAuditSink registers its Close hook while being constructed, ahead of
// the runner that depends on it, so it drains only after in-flight runs
// have finished.
func newAuditSink(p sinkParams) *audit.Sink {
	var opts []audit.Option
	if p.Tracer != nil {
		opts = append(opts, audit.WithCarrier(p.Tracer.GetCarrier))
	}
	sink := audit.NewSink(p.Publisher, p.Logger, p.Config.Buffer, opts...)
	p.Lifecycle.Append(fx.Hook{
		OnStop: sink.Close,
	})
	return sink
}
