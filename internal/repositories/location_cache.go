package repositories

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

// MemoryLocationCache keeps operator locations in process memory with a
// fixed TTL from last write and a hard entry cap with least-recently-written
// eviction. Expiry is checked lazily on read; the clock is injectable so
// tests can drive time.
type MemoryLocationCache struct {
	mu         sync.Mutex
	entries    map[string]StoredLocation
	ttl        time.Duration
	maxEntries int
	clock      func() time.Time
}

func NewMemoryLocationCache(ttl time.Duration, maxEntries int) *MemoryLocationCache {
	return NewMemoryLocationCacheWithClock(ttl, maxEntries, time.Now)
}

func NewMemoryLocationCacheWithClock(ttl time.Duration, maxEntries int, clock func() time.Time) *MemoryLocationCache {
	return &MemoryLocationCache{
		entries:    make(map[string]StoredLocation),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock,
	}
}

// Put always succeeds and always overwrites: last write wins.
func (c *MemoryLocationCache) Put(ctx context.Context, operatorID string, latitude, longitude float64, status string) (StoredLocation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	entry := StoredLocation{
		OperatorID: operatorID,
		Latitude:   latitude,
		Longitude:  longitude,
		Status:     status,
		Timestamp:  now,
	}
	c.entries[operatorID] = entry

	if len(c.entries) > c.maxEntries {
		c.evictLocked(now)
	}
	return entry, nil
}

func (c *MemoryLocationCache) Get(ctx context.Context, operatorID string) (StoredLocation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[operatorID]
	if !ok {
		return StoredLocation{}, apperrors.ErrNotFound
	}
	if c.expiredLocked(entry) {
		delete(c.entries, operatorID)
		return StoredLocation{}, apperrors.ErrNotFound
	}
	return entry, nil
}

func (c *MemoryLocationCache) Exists(ctx context.Context, operatorID string) (bool, error) {
	_, err := c.Get(ctx, operatorID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (c *MemoryLocationCache) expiredLocked(entry StoredLocation) bool {
	return c.clock().Sub(entry.Timestamp) >= c.ttl
}

// evictLocked drops expired entries first, then the least recently written
// ones until the cap is respected.
func (c *MemoryLocationCache) evictLocked(now time.Time) {
	for id, entry := range c.entries {
		if now.Sub(entry.Timestamp) >= c.ttl {
			delete(c.entries, id)
		}
	}

	for len(c.entries) > c.maxEntries {
		oldestID := ""
		var oldest time.Time
		for id, entry := range c.entries {
			if oldestID == "" || entry.Timestamp.Before(oldest) {
				oldestID = id
				oldest = entry.Timestamp
			}
		}
		delete(c.entries, oldestID)
	}
}
