package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// connectTimeout bounds the initial ping performed by Connect.
const connectTimeout = 5 * time.Second

// Connect establishes a client connection to uri and verifies it with a ping.
// The returned client is shared for the lifetime of the process and must be
// disconnected by the caller on shutdown.
func Connect(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if logger != nil {
		logger.Info("MongoDB connection established")
	}
	return client, nil
}

// EnsureIndexes creates a descending created_at index on each collection so
// that List can sort without scanning. Existing indexes are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database, collections ...string) error {
	for _, name := range collections {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		}
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}
