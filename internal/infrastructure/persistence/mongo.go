package persistence

import (
	"context"
	"fmt"

	"github.com/qiustore/backend/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	productsCollection = "products"
	ordersCollection   = "orders"
	usersCollection    = "users"
)

// Connect opens a client against the configured deployment and verifies it
// with a ping before handing back the database handle.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client.Database(cfg.Database), client.Disconnect, nil
}

// Ping verifies the deployment behind the database handle is reachable
func Ping(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}
