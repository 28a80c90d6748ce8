package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces keys in a shared Redis.
const DefaultRedisPrefix = "sw:cache:"

// RedisStore keeps cached responses in Redis with a TTL per key.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL (redis://[:password@]host:port/db).
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisStoreWithClient(redis.NewClient(opts), ttl), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: DefaultRedisPrefix, ttl: ttl}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the cached body for key. Redis errors count as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if disabled() {
		return nil, false
	}
	body, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return body, true
}

// Put stores body under key with the store TTL.
func (s *RedisStore) Put(ctx context.Context, key string, body []byte) {
	if disabled() {
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, body, s.ttl).Err(); err != nil {
		slog.Debug("redis cache put failed", "key", key, "error", err)
	}
}

// Delete removes the entry for key.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	_ = s.client.Del(ctx, s.prefix+key).Err()
}

// ClearAll removes every key under the store prefix.
func (s *RedisStore) ClearAll(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, iter.Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
