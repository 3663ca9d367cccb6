package qdrant

import (
	"context"
	"fmt"
	"log"
	"slices"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Point is a single vector with its payload. ID must be a UUID string.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// EnsureCollection creates the collection with cosine distance and the
// configured vector size if it does not exist yet.
func (c *QdrantClient) EnsureCollection(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	collections, err := c.api.ListCollections(ctx)
	if err != nil {
		return classify("list_collections", err)
	}

	if slices.Contains(collections, name) {
		log.Printf("[Qdrant] Collection '%s' already exists", name)
		return nil
	}

	log.Printf("[Qdrant] Collection '%s' not found, creating it...", name)

	req := &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}

	if err := c.api.CreateCollection(ctx, req); err != nil {
		return classify("create_collection", err)
	}

	log.Printf("[Qdrant] Created collection '%s' successfully", name)
	return nil
}

// Upsert writes points in a single request and waits for the write to be
// applied. Callers are responsible for batching.
func (c *QdrantClient) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		})
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	wait := true
	_, err := c.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         structs,
		Wait:           &wait,
	})
	if err != nil {
		return classify("upsert", err)
	}
	return nil
}

// DeleteByFilter removes every point matching filters. A nil or empty
// filter is rejected so a caller can never wipe a collection by accident.
func (c *QdrantClient) DeleteByFilter(ctx context.Context, collection string, filters *FilterSet) error {
	filter := buildFilter(filters)
	if filter == nil {
		return fmt.Errorf("[Qdrant] refusing delete without filter on '%s'", collection)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	wait := true
	resp, err := c.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorFilter(filter),
		Wait:           &wait,
	})
	if err != nil {
		return classify("delete", err)
	}

	log.Printf("[Qdrant] Delete completed (status=%s, collection=%s)", resp.GetStatus().String(), collection)
	return nil
}

// Count returns the exact number of points matching filters.
func (c *QdrantClient) Count(ctx context.Context, collection string, filters *FilterSet) (uint64, error) {
	exact := true
	n, err := c.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Filter:         buildFilter(filters),
		Exact:          &exact,
	})
	if err != nil {
		return 0, classify("count", err)
	}
	return n, nil
}
