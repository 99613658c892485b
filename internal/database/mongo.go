package database

import (
	"context"
	"fmt"

	"github.com/arigopay/backend/internal/config"
	"github.com/arigopay/backend/internal/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// InitMongo connects to MongoDB and returns the configured database handle.
// Callers disconnect through db.Client().
func InitMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	logger.Infof("[MONGO] Connected to database %s", cfg.Database)
	return client.Database(cfg.Database), nil
}
