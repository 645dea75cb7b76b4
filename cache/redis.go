package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small read-through cache used for hot inventory lookups
// (room prices). Misses and backend failures are both reported as an
// error from Get; callers fall back to the database.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(operation, key string) string
}

type redisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache connects a Cache to the Redis instance at addr.
func NewRedisCache(addr, keyPrefix string) Cache {
	return &redisCache{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		keyPrefix: keyPrefix,
	}
}

// FromEnv returns a Redis-backed cache when REDIS_URL is set, nil otherwise.
// A nil Cache is valid: services treat it as "no caching".
func FromEnv() Cache {
	addr := strings.TrimSpace(os.Getenv("REDIS_URL"))
	if addr == "" {
		slog.Info("REDIS_URL not set, price caching disabled")
		return nil
	}
	slog.Info("redis cache enabled", "addr", addr)
	return NewRedisCache(addr, "backoffice")
}

func (r *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.keyPrefix, operation, key)
}
