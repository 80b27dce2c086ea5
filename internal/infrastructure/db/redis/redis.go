package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// Config captures the settings for the Redis instance backing the session
// store. An empty Addr disables Redis entirely; sessions are then held in
// process memory.
type Config struct {
	Addr        string
	DB          int
	PingTimeout time.Duration
}

// Connect builds the session-store client and verifies connectivity with a
// ping. With no Addr configured it returns a nil client and no error: the
// caller falls back to the in-memory session store (dev mode).
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
