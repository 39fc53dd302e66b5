// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/fixit/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by the whole app.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		FixItMongoClient:   client,
		FixItMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema sets up collections and indexes.
//
// The contractors and providers collections feed change streams, and the
// contractor approval handler needs the document state from before each
// update. Pre- and post-images must be enabled per collection, which
// requires the collection to exist first.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.FixItMongoDatabase

	for _, name := range []string{"contractors", "providers"} {
		if err := ensurePreImages(ctx, db, name); err != nil {
			return fmt.Errorf("enable pre-images on %s: %w", name, err)
		}
	}

	// users: unique email lookup
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	// providers: list by contractor
	_, err = db.Collection("providers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contractor_id", Value: 1}},
		Options: options.Index().SetName("by_contractor"),
	})
	if err != nil {
		return fmt.Errorf("create providers contractor index: %w", err)
	}

	// jobs: list by client
	_, err = db.Collection("jobs").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client_id", Value: 1}},
		Options: options.Index().SetName("by_client"),
	})
	if err != nil {
		return fmt.Errorf("create jobs client index: %w", err)
	}

	if err := identity.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create auth account indexes: %w", err)
	}

	logger.Info("schema ensured")
	return nil
}

// ensurePreImages creates the collection if needed and turns on change
// stream pre/post images so watchers can see before/after documents.
func ensurePreImages(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name)
	if err != nil {
		var cmdErr mongo.CommandError
		// 48 = NamespaceExists
		if !errors.As(err, &cmdErr) || cmdErr.Code != 48 {
			return err
		}
	}

	return db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: name},
		{Key: "changeStreamPreAndPostImages", Value: bson.D{{Key: "enabled", Value: true}}},
	}).Err()
}
