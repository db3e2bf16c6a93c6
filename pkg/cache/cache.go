// Package cache defines the caches used in front of slow upstream lookups.
package cache

import (
	"context"
	"time"
)

// InstitutionCache caches institution id -> display name lookups.
// Get reports ok=false on a miss.
type InstitutionCache interface {
	Get(ctx context.Context, institutionID string) (name string, ok bool, err error)
	Set(ctx context.Context, institutionID, name string, ttl time.Duration) error
}
