// Package rds provides a Redis client wrapper used by the store facade
package rds

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RDS is a redis client handle
// repos reach the underlying client through C
type RDS struct {
	C *redis.Client
}

var newClient = redis.NewClient

// Open creates a new RDS client with the given config
// the connection is lazy; call Ping to verify reachability
func Open(_ context.Context, cfg Config) (*RDS, error) {
	c := newClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RDS{C: c}, nil
}

// Ping verifies the server is reachable
func (r *RDS) Ping(ctx context.Context) error {
	return r.C.Ping(ctx).Err()
}

// Close releases the client's connection pool
func (r *RDS) Close() error {
	if r == nil || r.C == nil {
		return nil
	}
	return r.C.Close()
}
