package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

// Resolver answers zip → service area lookups.
type Resolver interface {
	ResolveServiceArea(ctx context.Context, zipCode string) (*ServiceArea, error)
}

// CachedResolver fronts a Resolver with a redis cache keyed by zip code.
// Soft misses (unserviceable zips) are cached too, as the JSON "null".
// Cache failures degrade to the inner resolver.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedResolver wraps a resolver with a redis cache.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedResolver {
	if inner == nil {
		panic("directory: inner resolver required")
	}
	if client == nil {
		panic("directory: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedResolver{inner: inner, client: client, ttl: ttl, logger: logger}
}

func zipKey(zipCode string) string {
	return "servicearea:" + zipCode
}

// ResolveServiceArea serves from redis when possible.
func (c *CachedResolver) ResolveServiceArea(ctx context.Context, zipCode string) (*ServiceArea, error) {
	key := zipKey(zipCode)
	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var sa *ServiceArea
		if err := json.Unmarshal([]byte(cached), &sa); err == nil {
			return sa, nil
		}
		c.logger.Warn("service area cache entry corrupt", "key", key)
	case err != redis.Nil:
		c.logger.Warn("service area cache read failed", "key", key, "error", err)
	}

	sa, err := c.inner.ResolveServiceArea(ctx, zipCode)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(sa)
	if err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.Warn("service area cache write failed", "key", key, "error", err)
		}
	}
	return sa, nil
}
