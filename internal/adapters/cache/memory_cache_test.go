package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

func newTestEntry(key string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		Key:       key,
		Domain:    "text",
		Result:    []byte(`{"risk":"Safe"}`),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	entry := newTestEntry("k1", time.Hour)
	require.NoError(t, c.Set(ctx, entry))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, entry.Result, got.Result)
	assert.Equal(t, "text", got.Domain)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newTestEntry("stale", -time.Minute)))

	_, err := c.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newTestEntry("k1", time.Hour)))
	require.NoError(t, c.Delete(ctx, "k1"))

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newTestEntry("stale", -time.Minute)))
	require.NoError(t, c.Set(ctx, newTestEntry("fresh", time.Hour)))

	require.NoError(t, c.Cleanup(ctx))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.entries, 1)
	assert.Contains(t, c.entries, "fresh")
}
