package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/Aleph-Alpha/catalog-ingest/v1/embedding"
	"github.com/Aleph-Alpha/catalog-ingest/v1/httpapi"
	"github.com/Aleph-Alpha/catalog-ingest/v1/ingest"
	"github.com/Aleph-Alpha/catalog-ingest/v1/kafka"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
	"github.com/Aleph-Alpha/catalog-ingest/v1/minio"
	"github.com/Aleph-Alpha/catalog-ingest/v1/mongo"
	"github.com/Aleph-Alpha/catalog-ingest/v1/postgres"
	"github.com/Aleph-Alpha/catalog-ingest/v1/qdrant"
	"github.com/Aleph-Alpha/catalog-ingest/v1/rabbit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/redis"
	"github.com/Aleph-Alpha/catalog-ingest/v1/tracer"
)

// Audit transports.
const (
	transportRabbit = "rabbit"
	transportKafka  = "kafka"
)

type auditConfig struct {
	// Transport is rabbit or kafka.
	Transport string `envconfig:"AUDIT_TRANSPORT" default:"rabbit"`

	// Buffer is how many events may wait for the broker before new ones are dropped.
	Buffer int `envconfig:"AUDIT_BUFFER" default:"1024"`
}

type config struct {
	Logger    logger.Config
	Postgres  postgres.Config
	Mongo     mongo.Config
	Qdrant    qdrant.Config
	Redis     redis.Config
	Rabbit    rabbit.Config
	Kafka     kafka.Config
	Minio     minio.Config
	Embedding embedding.Config
	Tracer    tracer.Config
	Metrics   metrics.Config
	Ingest    ingest.Config
	HTTP      httpapi.Config
	Audit     auditConfig
}

// loadConfig reads every section from the environment. Sections are
// processed one by one so their variable names carry no section prefix.
func loadConfig() (config, error) {
	var cfg config
	sections := map[string]interface{}{
		"logger":    &cfg.Logger,
		"postgres":  &cfg.Postgres,
		"mongo":     &cfg.Mongo,
		"qdrant":    &cfg.Qdrant,
		"redis":     &cfg.Redis,
		"minio":     &cfg.Minio,
		"embedding": &cfg.Embedding,
		"tracer":    &cfg.Tracer,
		"metrics":   &cfg.Metrics,
		"ingest":    &cfg.Ingest,
		"http":      &cfg.HTTP,
		"audit":     &cfg.Audit,
	}
	for name, target := range sections {
		if err := envconfig.Process("", target); err != nil {
			return cfg, fmt.Errorf("load %s config: %w", name, err)
		}
	}

	switch cfg.Audit.Transport {
	case transportRabbit:
		if err := envconfig.Process("", &cfg.Rabbit); err != nil {
			return cfg, fmt.Errorf("load rabbit config: %w", err)
		}
	case transportKafka:
		if err := envconfig.Process("", &cfg.Kafka); err != nil {
			return cfg, fmt.Errorf("load kafka config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unknown audit transport %q", cfg.Audit.Transport)
	}
	return cfg, nil
}
