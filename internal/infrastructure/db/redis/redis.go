// Package redis holds the Redis side of the infrastructure: the connection
// bootstrap and the login-attempt guard built on top of it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName     = "finance-tracker"
	defaultTimeout = 5 * time.Second
	defaultAddr    = "localhost:6379"
)

// Config captures the settings for establishing the Redis connection.
// Zero values fall back to the local development defaults.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// clientOptions translates Config into go-redis options. The client name is
// visible in CLIENT LIST, which keeps this service's connections
// identifiable on a shared instance.
func clientOptions(cfg Config) *redis.Options {
	return &redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		ClientName:  clientName,
		DialTimeout: cfg.Timeout,
	}
}

// Connect builds the Redis client and fails closed: the instance must answer
// a ping within the timeout before the login guard is wired on top.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	cfg = cfg.withDefaults()

	client := redis.NewClient(clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
