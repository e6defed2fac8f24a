package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxEntries int) (*MemoryCache, *time.Time) {
	t.Helper()
	mc := NewMemoryCache(maxEntries)
	t.Cleanup(mc.Stop)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return clock }
	return mc, &clock
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(t, 10)

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))

	value, ok := mc.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), value)

	_, ok = mc.Get(ctx, "missing")
	assert.False(t, ok)

	stats := mc.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	mc, clock := newTestCache(t, 10)

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))
	*clock = clock.Add(2 * time.Minute)

	_, ok := mc.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	mc, clock := newTestCache(t, 2)

	require.NoError(t, mc.Set(ctx, "first", []byte("1"), time.Hour))
	*clock = clock.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "second", []byte("2"), time.Hour))
	*clock = clock.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "third", []byte("3"), time.Hour))

	_, ok := mc.Get(ctx, "first")
	assert.False(t, ok)
	_, ok = mc.Get(ctx, "third")
	assert.True(t, ok)
	assert.Equal(t, int64(1), mc.Stats().Evictions)
	assert.Equal(t, 2, mc.Stats().Entries)
}

func TestMemoryCache_OverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(t, 1)

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, mc.Set(ctx, "a", []byte("2"), time.Hour))

	value, ok := mc.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), value)
	assert.Zero(t, mc.Stats().Evictions)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestCache(t, 0)

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, mc.Delete(ctx, "a"))
	_, ok := mc.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, mc.Clear(ctx))
	assert.Zero(t, mc.Stats().Entries)
}
