package ingest

import "time"

// Config tunes the ingestion pipeline.
type Config struct {
	// MaxAttempts bounds calls to the embedding provider and vector index,
	// per item or batch, including the first try.
	MaxAttempts int `envconfig:"INGEST_MAX_ATTEMPTS" default:"3"`

	// BaseDelay is the wait before the second attempt; it doubles after each retry.
	BaseDelay time.Duration `envconfig:"INGEST_BASE_DELAY" default:"500ms"`

	// BatchSize is the number of vectors per upsert.
	BatchSize int `envconfig:"INGEST_BATCH_SIZE" default:"100"`

	// MaxConcurrentRuns bounds background runs across all providers.
	MaxConcurrentRuns int64 `envconfig:"INGEST_MAX_CONCURRENT_RUNS" default:"4"`

	// LockTTL is the expiry of the per-provider upload lock; it is refreshed while a run is alive.
	LockTTL time.Duration `envconfig:"INGEST_LOCK_TTL" default:"2m"`

	// LockWait is how long a run waits for another run of the same provider to finish.
	LockWait time.Duration `envconfig:"INGEST_LOCK_WAIT" default:"30m"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		BatchSize:         100,
		MaxConcurrentRuns: 4,
		LockTTL:           2 * time.Minute,
		LockWait:          30 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.MaxConcurrentRuns <= 0 {
		c.MaxConcurrentRuns = d.MaxConcurrentRuns
	}
	if c.LockTTL <= 0 {
		c.LockTTL = d.LockTTL
	}
	if c.LockWait <= 0 {
		c.LockWait = d.LockWait
	}
	return c
}
