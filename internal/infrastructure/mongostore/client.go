// Package mongostore keeps records and groups as MongoDB documents. Each record
// is one document with its participants embedded, so a compare-and-set is a
// single filtered replace.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/pkg/logger"
)

const (
	recordsCollection = "records"
	groupsCollection  = "groups"
)

// Connect opens a client, pings the primary and ensures the indexes exist.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, err
	}
	logger.Info("✅ MongoDB connected")
	return client, db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(recordsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "closing_date", Value: 1}}},
		{
			// one pending record per author and group; unclaimed requests have no author
			Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "author", Value: 1}},
			Options: options.Index().
				SetName("records_one_pending_per_author").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": string(entities.StatusPending),
					"author": bson.M{"$gt": ""},
				}),
		},
	})
	if err != nil {
		return fmt.Errorf("create record indexes: %w", err)
	}
	return nil
}
