package items

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
)

// CollectionName is the collection holding staged and live catalog items.
const CollectionName = "catalog_items"

// StageResult reports the outcome of an unordered bulk insert.
type StageResult struct {
	// Inserted are the items the store accepted, in input order.
	Inserted []catalog.Item
	// Rejected maps the input index of each refused item to the driver message.
	Rejected map[int]string
}

// Store reads and writes catalog items in the document store.
type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes creates the index used by every version-scoped sweep.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "catalogVersionId", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "sku", Value: 1}, {Key: "active", Value: 1}}},
	})
	return err
}

// InsertStaged inserts items without ordering so one refused document does
// not stop its siblings. Per-document write errors are reported in the
// result; any other failure (unreachable server, write concern) is returned
// as an error and the stage must be considered failed.
func (s *Store) InsertStaged(ctx context.Context, items []catalog.Item) (StageResult, error) {
	result := StageResult{Rejected: map[int]string{}}
	if len(items) == 0 {
		return result, nil
	}

	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}

	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil || len(bulkErr.WriteErrors) == 0 {
			return StageResult{}, fmt.Errorf("insert staged items: %w", err)
		}
		for _, we := range bulkErr.WriteErrors {
			result.Rejected[we.Index] = we.Message
		}
	}

	for i, item := range items {
		if _, rejected := result.Rejected[i]; !rejected {
			result.Inserted = append(result.Inserted, item)
		}
	}
	return result, nil
}

// SetActive flips the active flag on every item of versionID. Deactivation
// also stamps archivedAt; activation clears it.
func (s *Store) SetActive(ctx context.Context, versionID string, active bool, at time.Time) (int64, error) {
	update := bson.M{"$set": bson.M{"active": true}, "$unset": bson.M{"archivedAt": ""}}
	if !active {
		update = bson.M{"$set": bson.M{"active": false, "archivedAt": at.UTC()}}
	}

	res, err := s.coll.UpdateMany(ctx, bson.M{"catalogVersionId": versionID}, update)
	if err != nil {
		return 0, fmt.Errorf("set active=%t for version %s: %w", active, versionID, err)
	}
	return res.ModifiedCount, nil
}

// DeleteInactive removes every item of versionID that was never promoted.
func (s *Store) DeleteInactive(ctx context.Context, versionID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"catalogVersionId": versionID, "active": false})
	if err != nil {
		return 0, fmt.Errorf("delete inactive items of version %s: %w", versionID, err)
	}
	return res.DeletedCount, nil
}

// Count returns how many items of versionID have the given active flag.
func (s *Store) Count(ctx context.Context, versionID string, active bool) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"catalogVersionId": versionID, "active": active})
}
