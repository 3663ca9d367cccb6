// Package catalog holds the types shared by the catalog ingestion pipeline:
// providers, catalog versions and their lifecycle, staged items and the
// vector records published for them.
//
// Storage lives in the sub-packages:
//
//	providers  provider lookup (postgres)
//	versions   version ledger and cutover transactions (postgres)
//	items      staged item documents (mongo)
//	vectors    vector index writes (qdrant)
//	uploads    uploaded catalog files (minio)
//	audit      non-blocking audit trail (rabbit or kafka)
//	locks      per-provider upload serialization (redis)
package catalog
