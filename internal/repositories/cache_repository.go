package repositories

import (
	"context"
	"time"
)

// StoredLocation is one cache entry: the operator's last reported position.
// Each write fully replaces the prior entry.
type StoredLocation struct {
	OperatorID string    `json:"operatorId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// OperatorLocationCacheInterface is the operator location cache contract.
// The cache is never the system of record; losing every entry is an
// accepted failure since operator clients re-report periodically.
type OperatorLocationCacheInterface interface {
	// Put overwrites the entry for an operator and returns what was stored.
	Put(ctx context.Context, operatorID string, latitude, longitude float64, status string) (StoredLocation, error)
	// Get returns the live entry, or apperrors.ErrNotFound when the key is
	// absent or expired.
	Get(ctx context.Context, operatorID string) (StoredLocation, error)
	Exists(ctx context.Context, operatorID string) (bool, error)
}
