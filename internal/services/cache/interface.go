package cache

import (
	"context"
	"time"
)

// Cache stores derived video data keyed by video id
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Stats counts cache traffic since creation
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	Capacity  int
}

// StatsProvider is implemented by caches that track Stats
type StatsProvider interface {
	Stats() Stats
}
