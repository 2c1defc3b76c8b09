package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resto-pos/internal/logger"
)

// DefaultTTL bounds how stale a cached GET response may be if invalidation
// is ever missed.
const DefaultTTL = 5 * time.Minute

// Gateway is a read-through response cache backed by Redis. Every mutation to
// a cached resource family must call InvalidatePrefix before responding; a
// cache-unavailable condition never fails the mutation itself, only skips
// caching with a warning.
type Gateway struct {
	client *redis.Client
	logger *logger.Logger
}

// New creates a cache gateway for the Redis server at addr.
func New(addr string, log *logger.Logger) *Gateway {
	return &Gateway{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: log,
	}
}

// Key builds the cache key for a route prefix, e.g. "cache:/menu".
func Key(routePrefix string) string {
	return fmt.Sprintf("cache:%s", routePrefix)
}

// Get returns the cached payload for the route prefix, or "" on miss or
// cache failure.
func (g *Gateway) Get(ctx context.Context, routePrefix, requestID string) string {
	value, err := g.client.Get(ctx, Key(routePrefix)).Result()
	if err == redis.Nil {
		return ""
	}
	if err != nil {
		g.logger.Error("cache_read_failed", requestID, "Failed to read cache, serving from database", err,
			map[string]interface{}{"key": Key(routePrefix)})
		return ""
	}
	return value
}

// Set stores a payload under the route prefix. Failures are logged and
// swallowed.
func (g *Gateway) Set(ctx context.Context, routePrefix, requestID, payload string) {
	if err := g.client.Set(ctx, Key(routePrefix), payload, DefaultTTL).Err(); err != nil {
		g.logger.Error("cache_write_failed", requestID, "Failed to write cache entry", err,
			map[string]interface{}{"key": Key(routePrefix)})
	}
}

// InvalidatePrefix deletes every cache entry whose key matches
// cache:<routePrefix>*. It must be called by mutating operations before they
// respond success. Failures are logged and swallowed so an unavailable cache
// never fails the mutation.
func (g *Gateway) InvalidatePrefix(ctx context.Context, routePrefix, requestID string) {
	pattern := Key(routePrefix) + "*"

	var cursor uint64
	for {
		keys, next, err := g.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			g.logger.Error("cache_invalidation_failed", requestID,
				"Failed to scan cache keys, skipping invalidation", err,
				map[string]interface{}{"pattern": pattern})
			return
		}

		if len(keys) > 0 {
			if err := g.client.Del(ctx, keys...).Err(); err != nil {
				g.logger.Error("cache_invalidation_failed", requestID,
					"Failed to delete cache keys, skipping invalidation", err,
					map[string]interface{}{"pattern": pattern})
				return
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	g.logger.Debug("cache_invalidated", requestID, "Invalidated cache entries",
		map[string]interface{}{"pattern": pattern})
}

// Ping tests the cache connection.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (g *Gateway) Close() error {
	return g.client.Close()
}
