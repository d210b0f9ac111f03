package interactionsRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the interactions collection.
func (r *mongoInteractionRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "requestId", Value: 1}},
			Options: options.Index().SetName("request_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "functionName", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("function_created_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create interaction indexes: %w", err)
	}
	return nil
}
