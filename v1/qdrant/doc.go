// Package qdrant provides a thin wrapper around the official Qdrant gRPC client.
//
// The wrapper covers the write side of the vector index: creating the
// collection, upserting points and deleting points by payload filter.
//
//	client, err := qdrant.NewQdrantClient(qdrant.DefaultConfig())
//	err = client.Upsert(ctx, client.Collection(), []qdrant.Point{{
//	    ID:      uuid.NewString(),
//	    Vector:  vec,
//	    Payload: map[string]any{"providerId": "p1"},
//	}})
//
// Filters are expressed with FilterSet:
//
//	err = client.DeleteByFilter(ctx, collection, qdrant.Must(
//	    qdrant.TextCondition{Key: "providerId", Value: "p1"},
//	    qdrant.TextCondition{Key: "catalogVersionId", Value: "v3"},
//	))
//
// # Errors
//
// Every failed call returns *OperationError. Its StatusCode is the HTTP
// equivalent of the gRPC status (Unavailable maps to 503, ResourceExhausted
// to 429, Unauthenticated to 401 and so on).
//
// # Configuration
//
//	QDRANT_ENDPOINT=localhost
//	QDRANT_PORT=6334
//	QDRANT_API_KEY=
//	QDRANT_COLLECTION=catalog_items
//	QDRANT_VECTOR_SIZE=1536
package qdrant
