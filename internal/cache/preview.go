package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "studio:thumb:"

// PreviewCache keeps rendered gallery thumbnails in Redis so the list view
// does not re-scale every image on each render. A nil *PreviewCache is valid
// and behaves as an always-miss cache, for deployments without Redis.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewCache connects to Redis and verifies the connection.
func NewPreviewCache(addr string, ttl time.Duration) (*PreviewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &PreviewCache{client: client, ttl: ttl}, nil
}

// Get returns the cached thumbnail for a record id, or false on a miss.
func (c *PreviewCache) Get(ctx context.Context, id string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("preview cache: get failed, treating as miss", "record_id", id, "error", err)
		return nil, false
	}
	return data, true
}

// Set stores a rendered thumbnail. Failures are logged, not propagated; the
// cache is an optimization, never a source of truth.
func (c *PreviewCache) Set(ctx context.Context, id string, thumbnail []byte) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, keyPrefix+id, thumbnail, c.ttl).Err(); err != nil {
		slog.Warn("preview cache: set failed", "record_id", id, "error", err)
	}
}

// Invalidate drops the cached thumbnail for a deleted record.
func (c *PreviewCache) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		slog.Warn("preview cache: invalidate failed", "record_id", id, "error", err)
	}
}

// Close releases the Redis connection.
func (c *PreviewCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
