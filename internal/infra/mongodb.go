package infra

import (
	"context"
	"fmt"

	"github.com/yshebel/customerhub/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongodb establishes verified connection to mongodb and ensures the
// unique email indexes the application relies on
func Mongodb(ctx context.Context, cfg config.MongoCfg) (*mongo.Database, error) {
	uri := fmt.Sprintf(
		"mongodb://%s:%s@%s:%d/?maxPoolSize=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.MaxPoolSize,
	)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)
	if err := ensureEmailIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure unique email indexes - %w", err)
	}
	return db, nil
}

// ensureEmailIndexes creates unique index on email scoped to active
// records for both collections, this is the authoritative uniqueness
// enforcement under concurrent writes
func ensureEmailIndexes(ctx context.Context, db *mongo.Database) error {
	index := mongo.IndexModel{
		Keys: bson.M{"email": 1},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"active": true}),
	}

	for _, coll := range []string{"customers", "users"} {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
