// FILE: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("user_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "docId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("doc_date_idx"),
		},
		// Backs the settle-completed maintenance scan.
		{
			Keys:    bson.D{{Key: "isCompleted", Value: 1}, {Key: "payment", Value: 1}, {Key: "cancelled", Value: 1}},
			Options: options.Index().SetName("completed_payment_cancelled_idx"),
		},
	}

	if _, err := db.Collection("appointments").Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
