package cache_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) (*cache.Redis, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	redisURL, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	c, err := cache.NewRedis(ctx, logger, redisURL, time.Minute)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, c.Close())
		assert.NoError(t, testcontainers.TerminateContainer(container))
		cancel()
	})

	return c, ctx
}

func TestRedis_GetSetInvalidate(t *testing.T) {
	c, ctx := setupRedis(t)

	key, err := cache.Key("wf-1", "validate", map[string]int{"nodes": 2})
	require.NoError(t, err)

	other, err := cache.Key("wf-2", "validate", map[string]int{"nodes": 2})
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`{"valid":true}`)))
	require.NoError(t, c.Set(ctx, other, []byte(`{"valid":false}`)))

	value, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"valid":true}`, string(value))

	require.NoError(t, c.Invalidate(ctx, "wf-1"))

	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestNewRedis_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := cache.NewRedis(context.Background(), slog.Default(), "not a url", time.Minute)
	require.Error(t, err)
}
