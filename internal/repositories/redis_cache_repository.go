package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

// RedisLocationCache is the redis-backed cache driver, for deployments
// running more than one API instance. TTL is handled natively by redis;
// the entry cap is left to the server's maxmemory policy.
type RedisLocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocationCache(client *redis.Client, ttl time.Duration) OperatorLocationCacheInterface {
	return &RedisLocationCache{client: client, ttl: ttl}
}

func (r *RedisLocationCache) Put(ctx context.Context, operatorID string, latitude, longitude float64, status string) (StoredLocation, error) {
	entry := StoredLocation{
		OperatorID: operatorID,
		Latitude:   latitude,
		Longitude:  longitude,
		Status:     status,
		Timestamp:  time.Now(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return StoredLocation{}, fmt.Errorf("marshaling location entry: %w", err)
	}

	key := fmt.Sprintf(constants.CacheKeyOperatorLocation, operatorID)
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return StoredLocation{}, apperrors.NewDependencyError("location cache unavailable", err)
	}
	return entry, nil
}

func (r *RedisLocationCache) Get(ctx context.Context, operatorID string) (StoredLocation, error) {
	key := fmt.Sprintf(constants.CacheKeyOperatorLocation, operatorID)

	raw, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return StoredLocation{}, apperrors.ErrNotFound
	}
	if err != nil {
		return StoredLocation{}, apperrors.NewDependencyError("location cache unavailable", err)
	}

	var entry StoredLocation
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return StoredLocation{}, fmt.Errorf("unmarshaling location entry: %w", err)
	}
	return entry, nil
}

func (r *RedisLocationCache) Exists(ctx context.Context, operatorID string) (bool, error) {
	key := fmt.Sprintf(constants.CacheKeyOperatorLocation, operatorID)

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.NewDependencyError("location cache unavailable", err)
	}
	return n > 0, nil
}
