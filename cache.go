package ogdch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CountCache keeps the front page counters between requests.
type CountCache interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, value int, ttl time.Duration) error
}

// NoopCountCache never stores anything.
type NoopCountCache struct{}

func (NoopCountCache) Get(context.Context, string) (int, bool, error) { return 0, false, nil }

func (NoopCountCache) Set(context.Context, string, int, time.Duration) error { return nil }

// RedisCountCache stores counters in redis under prefix.
type RedisCountCache struct {
	client redis.UniversalClient
	prefix string
}

var _ CountCache = &RedisCountCache{}

func NewRedisCountCache(client redis.UniversalClient, prefix string) *RedisCountCache {
	if prefix == "" {
		prefix = "ogdch:count:"
	}
	return &RedisCountCache{client: client, prefix: prefix}
}

// NewRedisCountCacheFromURL connects using a redis:// URL.
func NewRedisCountCacheFromURL(rawURL, prefix string) (*RedisCountCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("ogdch: parse redis url: %w", err)
	}
	return NewRedisCountCache(redis.NewClient(opts), prefix), nil
}

func (c *RedisCountCache) Get(ctx context.Context, key string) (int, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ogdch: read count %s: %w", key, err)
	}
	return value, true, nil
}

func (c *RedisCountCache) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("ogdch: write count %s: %w", key, err)
	}
	return nil
}

// Close releases the redis connection.
func (c *RedisCountCache) Close() error {
	return c.client.Close()
}
