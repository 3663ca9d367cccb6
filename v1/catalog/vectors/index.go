package vectors

import (
	"context"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/qdrant"
)

// Payload keys written next to every vector.
const (
	KeyVectorID         = "vectorId"
	KeyProviderID       = "providerId"
	KeyCatalogVersionID = "catalogVersionId"
	KeyCategory         = "category"
	KeyBrand            = "brand"
	KeyColor            = "color"
	KeyMaterial         = "material"
	KeySize             = "size"
	KeyTags             = "tags"
)

// pointNamespace seeds the deterministic point ids derived from VectorID.
var pointNamespace = uuid.MustParse("7f1d6c0e-52a4-4a53-9a0e-3c4b8d2f9e61")

type pointStore interface {
	Upsert(ctx context.Context, collection string, points []qdrant.Point) error
	DeleteByFilter(ctx context.Context, collection string, filters *qdrant.FilterSet) error
	Count(ctx context.Context, collection string, filters *qdrant.FilterSet) (uint64, error)
}

// Index writes catalog vectors to one Qdrant collection. It performs single
// calls only; batching and retries belong to the caller.
type Index struct {
	store      pointStore
	collection string
}

func NewIndex(client *qdrant.QdrantClient) *Index {
	return &Index{store: client, collection: client.Collection()}
}

// PointID maps a version and its provider#sku key onto the UUID Qdrant
// requires. Points are distinct per version so the ACTIVE version keeps its
// vectors while a newer one is being published or rolled back; repeating a
// publish for the same version overwrites instead of duplicating.
func PointID(versionID, vectorID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(versionID+"/"+vectorID)).String()
}

// Upsert writes one batch of records.
func (ix *Index) Upsert(ctx context.Context, records []catalog.VectorRecord) error {
	points := make([]qdrant.Point, 0, len(records))
	for _, r := range records {
		points = append(points, qdrant.Point{
			ID:      PointID(r.Metadata.CatalogVersionID, r.ID),
			Vector:  r.Values,
			Payload: payload(r),
		})
	}
	return ix.store.Upsert(ctx, ix.collection, points)
}

// DeleteByVersion removes every vector tagged with the provider and version.
func (ix *Index) DeleteByVersion(ctx context.Context, providerID, versionID string) error {
	return ix.store.DeleteByFilter(ctx, ix.collection, versionFilter(providerID, versionID))
}

// CountByVersion returns how many vectors are tagged with the provider and version.
func (ix *Index) CountByVersion(ctx context.Context, providerID, versionID string) (uint64, error) {
	return ix.store.Count(ctx, ix.collection, versionFilter(providerID, versionID))
}

func versionFilter(providerID, versionID string) *qdrant.FilterSet {
	return qdrant.Must(
		qdrant.TextCondition{Key: KeyProviderID, Value: providerID},
		qdrant.TextCondition{Key: KeyCatalogVersionID, Value: versionID},
	)
}

func payload(r catalog.VectorRecord) map[string]any {
	p := map[string]any{
		KeyVectorID:         r.ID,
		KeyProviderID:       r.Metadata.ProviderID,
		KeyCatalogVersionID: r.Metadata.CatalogVersionID,
		KeyCategory:         r.Metadata.Category,
	}
	optional := map[string]string{
		KeyBrand:    r.Metadata.Brand,
		KeyColor:    r.Metadata.Color,
		KeyMaterial: r.Metadata.Material,
		KeySize:     r.Metadata.Size,
	}
	for k, v := range optional {
		if v != "" {
			p[k] = v
		}
	}
	if len(r.Metadata.Tags) > 0 {
		tags := make([]any, len(r.Metadata.Tags))
		for i, t := range r.Metadata.Tags {
			tags[i] = t
		}
		p[KeyTags] = tags
	}
	return p
}
