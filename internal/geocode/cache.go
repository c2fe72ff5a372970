package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/telemetry"
)

// CachedResolverConfig holds configuration for the Redis-backed cache.
type CachedResolverConfig struct {
	// Inner is the resolver consulted on cache misses.
	Inner Resolver

	// Client is the Redis client.
	Client *redis.Client

	// Logger for cache operations.
	Logger zerolog.Logger

	// Metrics records cache hits and misses (optional).
	Metrics *telemetry.ProviderMetrics

	// TTL is how long resolved names are kept (default: 24h). Station
	// coordinates are effectively static, so a long TTL is safe.
	TTL time.Duration
}

// CachedResolver caches resolved place names in Redis. Cache failures
// degrade to the inner resolver; they are never surfaced.
type CachedResolver struct {
	inner   Resolver
	client  *redis.Client
	logger  zerolog.Logger
	metrics *telemetry.ProviderMetrics
	ttl     time.Duration
}

// NewCachedResolver creates a Redis-backed resolver cache.
func NewCachedResolver(cfg CachedResolverConfig) *CachedResolver {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &CachedResolver{
		inner:   cfg.Inner,
		client:  cfg.Client,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		ttl:     ttl,
	}
}

// Resolve returns the cached name for the coordinates, falling back to
// the inner resolver and caching its result.
func (c *CachedResolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	key := cacheKey(lat, lon)

	name, err := c.client.Get(ctx, key).Result()
	if err == nil && name != "" {
		c.metrics.RecordCacheHit(ctx, "geocode", "reverse")
		return name, nil
	}
	if err != nil && err != redis.Nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("geocode cache read failed")
	}
	c.metrics.RecordCacheMiss(ctx, "geocode", "reverse")

	name, err = c.inner.Resolve(ctx, lat, lon)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, name, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("geocode cache write failed")
	}

	return name, nil
}

// cacheKey rounds coordinates to four decimals (roughly 11m), matching
// the precision of the coordinate fallback label.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("geocode:%.4f,%.4f", lat, lon)
}
