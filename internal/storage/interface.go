package storage

import (
	"context"
	"time"
)

// Store is a shared snapshot tier behind the per-session MemoryCache. It holds
// only the latest value per key, bounded by a TTL. Get methods return nil, nil
// on a miss.
type Store interface {
	GetSpotTable(ctx context.Context, base string) (*SpotTable, error)
	SetSpotTable(ctx context.Context, table *SpotTable) error
	GetInterest(ctx context.Context, key CountryKey) (*RateEntry, error)
	SetInterest(ctx context.Context, key CountryKey, entry RateEntry) error
	Close() error
}

type CacheOptions struct {
	DefaultTTL time.Duration
}

func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		DefaultTTL: 1 * time.Hour,
	}
}
