package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures [NewRedisCache].
type RedisOptions struct {
	Addr      string
	DB        int
	Password  string
	KeyPrefix string // defaults to "algotrace:"
}

// RedisCache stores entries in Redis with native key expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects lazily; the first command reports an unreachable
// server.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "algotrace:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		DB:       opts.DB,
		Password: opts.Password,
	})
	return &RedisCache{client: client, prefix: opts.KeyPrefix}, nil
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return wrapBackend("ping", c.client.Ping(ctx).Err())
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapBackend("get", err)
	}
	return data, true, nil
}

// Set stores a value. Redis treats a zero expiration as no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return wrapBackend("set", c.client.Set(ctx, c.prefix+key, data, ttl).Err())
}

// Delete removes a key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return wrapBackend("delete", c.client.Del(ctx, c.prefix+key).Err())
}

// Close closes the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
