// Package vectors writes catalog item embeddings to the Qdrant collection.
//
// Every point is keyed by its catalog version as well as by provider and
// sku (see PointID), so publishing a new version never overwrites the
// vectors of the version still being served. Between the cutover commit
// and the removal of the archived version's vectors both versions' points
// for the same sku coexist; searches must filter on the ACTIVE
// catalogVersionId or deduplicate on vectorId during that window. Removal
// is best-effort, so a failed cleanup extends the window until the points
// are deleted by version.
package vectors
