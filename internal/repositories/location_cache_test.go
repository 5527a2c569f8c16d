package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(ttl time.Duration, maxEntries int) (*MemoryLocationCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemoryLocationCacheWithClock(ttl, maxEntries, clock.Now), clock
}

func TestMemoryLocationCache_PutThenGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(5*time.Minute, 10)

	stored, err := cache.Put(ctx, "op-1", 10.5, -66.9, "ONLINE")
	require.NoError(t, err)
	assert.Equal(t, "op-1", stored.OperatorID)

	got, err := cache.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	exists, err := cache.Exists(ctx, "op-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryLocationCache_GetMissing(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(5*time.Minute, 10)

	_, err := cache.Get(ctx, "nobody")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	exists, err := cache.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryLocationCache_OverwriteResetsTTL(t *testing.T) {
	ctx := context.Background()
	cache, clock := newTestCache(5*time.Minute, 10)

	_, err := cache.Put(ctx, "op-1", 10.5, -66.9, "ONLINE")
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, err = cache.Put(ctx, "op-1", 10.6, -66.8, "BUSY")
	require.NoError(t, err)

	// four more minutes would have expired the first write, not the second
	clock.Advance(4 * time.Minute)
	got, err := cache.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, 10.6, got.Latitude)
	assert.Equal(t, "BUSY", got.Status)
}

func TestMemoryLocationCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	cache, clock := newTestCache(5*time.Minute, 10)

	_, err := cache.Put(ctx, "op-1", 10.5, -66.9, "ONLINE")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	_, err = cache.Get(ctx, "op-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMemoryLocationCache_EvictsOldestAtCap(t *testing.T) {
	ctx := context.Background()
	cache, clock := newTestCache(time.Hour, 3)

	for i := 1; i <= 3; i++ {
		_, err := cache.Put(ctx, fmt.Sprintf("op-%d", i), 10.0, -66.0, "ONLINE")
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	// the cap is full; the next write pushes out the oldest entry
	_, err := cache.Put(ctx, "op-4", 10.0, -66.0, "ONLINE")
	require.NoError(t, err)

	_, err = cache.Get(ctx, "op-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	for _, id := range []string{"op-2", "op-3", "op-4"} {
		_, err := cache.Get(ctx, id)
		assert.NoError(t, err, id)
	}
}

func TestMemoryLocationCache_EvictionPrefersExpiredEntries(t *testing.T) {
	ctx := context.Background()
	cache, clock := newTestCache(time.Minute, 2)

	_, err := cache.Put(ctx, "stale", 10.0, -66.0, "ONLINE")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = cache.Put(ctx, "fresh-1", 10.0, -66.0, "ONLINE")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = cache.Put(ctx, "fresh-2", 10.0, -66.0, "ONLINE")
	require.NoError(t, err)

	// the stale entry went first; both live entries survive the cap
	for _, id := range []string{"fresh-1", "fresh-2"} {
		_, err := cache.Get(ctx, id)
		assert.NoError(t, err, id)
	}
}
