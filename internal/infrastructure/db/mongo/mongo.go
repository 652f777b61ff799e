// Package mongo holds the MongoDB side of the persistence layer: the
// connection bootstrap, the counters-based id sequence and the account,
// category and transaction repositories.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "finance-tracker"
	defaultTimeout = 10 * time.Second

	defaultURI      = "mongodb://localhost:27017"
	defaultDatabase = "finance_tracker"
)

// Config captures the settings for establishing the MongoDB connection.
// Zero values fall back to the local development defaults.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.URI == "" {
		c.URI = defaultURI
	}
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// clientOptions translates Config into driver options. The app name shows up
// in server logs and currentOp output, which makes this service's connections
// identifiable on shared clusters.
func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(cfg.Timeout)
}

// Connect establishes the MongoDB client and fails closed: the primary must
// answer a ping within the timeout before any repository is built on top.
// Returns both the client (for shutdown) and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	cfg = cfg.withDefaults()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
