package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// nextID atomically allocates the next int64 surrogate id for the named
// sequence using a findOneAndUpdate $inc upsert on the counters collection.
func nextID(ctx context.Context, db *mongo.Database, sequence string) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := db.Collection(countersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": sequence},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("allocate id for %s: %w", sequence, err)
	}
	return doc.Value, nil
}
