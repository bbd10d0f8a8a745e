package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis holds the client backing the event queue.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects with timeouts short enough that a dead Redis degrades
// /healthz instead of hanging request handlers. Blocking queue reads extend
// their own deadline, so the short ReadTimeout only bounds ordinary commands.
func NewRedis(addr string) *Redis {
	return &Redis{Client: redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     8,
	})}
}

// Healthy reports whether Redis answers a ping. Feeds /healthz.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}
