package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motohanem/moto-backend/internal/config"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	c, err := InitServer(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	expected := map[string]string{"home.title": "Anasayfa"}
	require.NoError(t, c.Set(ctx, "translations:tr:", expected, time.Minute))

	var actual map[string]string
	found, err := c.Get(ctx, "translations:tr:", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	var out map[string]string
	found, err := c.Get(context.Background(), "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	mr.FastForward(2 * time.Second)

	var out int
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidatePrefix(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "translations:en:", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "translations:tr:home", 2, time.Minute))
	require.NoError(t, c.Set(ctx, "other", 3, time.Minute))

	require.NoError(t, c.InvalidatePrefix(ctx, "translations:"))

	assert.False(t, mr.Exists("translations:en:"))
	assert.False(t, mr.Exists("translations:tr:home"))
	assert.True(t, mr.Exists("other"))
}

func TestTryLock(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	release, ok, err := c.TryLock(ctx, "lock:sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = c.TryLock(ctx, "lock:sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("lock:sweep"))

	_, ok, err = c.TryLock(ctx, "lock:sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseDoesNotDropForeignLock(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	release, ok, err := c.TryLock(ctx, "lock:sweep", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok, err = c.TryLock(ctx, "lock:sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, release(ctx))
	assert.True(t, mr.Exists("lock:sweep"))
}
