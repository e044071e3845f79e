package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Store using Redis
type RedisCache struct {
	client *redis.Client
	opts   *CacheOptions
}

// NewRedisCache creates a new Redis cache instance. addr is either a
// redis:// or rediss:// URL, or a tcp:// or unix:// address with optional
// password and database path.
func NewRedisCache(ctx context.Context, addr string, options ...RedisOption) (*RedisCache, error) {
	redisOpts, err := parseRedisAddr(addr)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(redisOpts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisCache{
		client: client,
		opts:   DefaultCacheOptions(),
	}

	// Apply options
	for _, option := range options {
		option(cache)
	}

	return cache, nil
}

func parseRedisAddr(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("can't parse url for redis: %w", err)
		}
		return opts, nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("can't parse url for redis: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("can't parse url for redis: %q needs scheme and host", addr)
	}

	var passwd string
	if u.User != nil {
		passwd, _ = u.User.Password()
	}

	db := 0
	if 1 < len(u.Path) {
		db, err = strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("can't convert string into int for redis db; %s; %s", err.Error(), addr)
		}
	}

	return &redis.Options{
		Network:  u.Scheme,
		Addr:     u.Host,
		Password: passwd,
		DB:       db,
	}, nil
}

// RedisOption is a function that configures Redis cache options
type RedisOption func(*RedisCache)

// WithRedisOptions sets cache options; a non-positive DefaultTTL keeps the default.
func WithRedisOptions(opts *CacheOptions) RedisOption {
	return func(rc *RedisCache) {
		if opts != nil && opts.DefaultTTL > 0 {
			rc.opts = opts
		}
	}
}

// SetSpotTable stores table only if no snapshot for its base exists yet, so
// sibling sessions keep seeing the same rates until the TTL lapses.
func (rc *RedisCache) SetSpotTable(ctx context.Context, table *SpotTable) error {
	if table == nil {
		return fmt.Errorf("spot table is nil")
	}
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal spot table: %w", err)
	}
	return rc.client.SetNX(ctx, spotKeyPrefix+strings.ToUpper(table.Base), data, rc.opts.DefaultTTL).Err()
}

func (rc *RedisCache) GetSpotTable(ctx context.Context, base string) (*SpotTable, error) {
	data, err := rc.client.Get(ctx, spotKeyPrefix+strings.ToUpper(base)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // No snapshot
		}
		return nil, fmt.Errorf("failed to get spot table from Redis: %w", err)
	}

	var table SpotTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spot table: %w", err)
	}
	return &table, nil
}

func (rc *RedisCache) SetInterest(ctx context.Context, key CountryKey, entry RateEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal interest rate: %w", err)
	}
	return rc.client.SetNX(ctx, interestKeyPrefix+string(key), data, rc.opts.DefaultTTL).Err()
}

func (rc *RedisCache) GetInterest(ctx context.Context, key CountryKey) (*RateEntry, error) {
	data, err := rc.client.Get(ctx, interestKeyPrefix+string(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get interest rate from Redis: %w", err)
	}

	var entry RateEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interest rate: %w", err)
	}
	return &entry, nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
