package ingest

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/items"
)

// ProviderDirectory resolves providers; a missing provider is (nil, nil).
type ProviderDirectory interface {
	GetByIDOrCode(ctx context.Context, key string) (*catalog.Provider, error)
}

// RowReader loads and parses an uploaded file.
type RowReader interface {
	ReadRows(ctx context.Context, fileRef string) ([]catalog.Row, error)
}

// VersionLedger is the relational record of catalog versions. Open and
// Activate must be idempotent for the same arguments: both are retried on
// transport errors that may hide a committed transaction.
type VersionLedger interface {
	Open(ctx context.Context, versionID, providerID, fileRef string) (catalog.Version, error)
	Activate(ctx context.Context, providerID, versionID string) (*catalog.Version, error)
	RevertActivation(ctx context.Context, versionID, previousID string) error
	MarkFailed(ctx context.Context, versionID string) error
}

// ItemStore holds catalog items in the document store.
type ItemStore interface {
	InsertStaged(ctx context.Context, items []catalog.Item) (items.StageResult, error)
	SetActive(ctx context.Context, versionID string, active bool, at time.Time) (int64, error)
	DeleteInactive(ctx context.Context, versionID string) (int64, error)
}

// VectorIndex stores item embeddings.
type VectorIndex interface {
	Upsert(ctx context.Context, records []catalog.VectorRecord) error
	DeleteByVersion(ctx context.Context, providerID, versionID string) error
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProviderLock serializes runs of one provider. The returned func releases it.
type ProviderLock interface {
	Acquire(ctx context.Context, providerID string) (func(), error)
}
