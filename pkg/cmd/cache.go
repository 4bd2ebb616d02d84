package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/flowgraph/pkg/cache"
)

// NewCache returns a Redis cache when redisURL is set and an in-memory cache otherwise. A negative
// ttl disables caching and returns nil.
func NewCache(ctx context.Context, logger *slog.Logger, redisURL string, ttl time.Duration) (cache.Cache, error) {
	if ttl < 0 {
		return nil, nil
	}

	if redisURL != "" {
		redisCache, err := cache.NewRedis(ctx, logger, redisURL, ttl)
		if err != nil {
			return nil, err
		}

		return redisCache, nil
	}

	return cache.NewMemory(ttl), nil
}
