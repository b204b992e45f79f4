package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brandgate/internal/config"
)

// RedisClient is the subset of go-redis client methods used by RedisStore.
// Keeping it as an interface enables mocking in tests.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// RedisStore adapts a Redis connection to the Store contract. Transport and
// protocol failures come back as ErrUnavailable so callers degrade instead
// of crashing; a timed-out write is reported as failed even though it may
// have landed, because an uncertain ack must never be assumed successful.
type RedisStore struct {
	client  RedisClient
	prefix  string
	timeout time.Duration
}

// NewRedisStore creates a RedisStore from the cache configuration. The
// connection is established lazily by the first call; there is no sticky
// connected/disconnected state.
func NewRedisStore(cfg config.CacheConfig) *RedisStore {
	opts := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.RemoteCacheTimeout
	}
	return &RedisStore{
		client:  redis.NewClient(opts),
		prefix:  cfg.KeyPrefix,
		timeout: timeout,
	}
}

// NewRedisStoreWithClient creates a RedisStore backed by a pre-built client.
// Intended for tests.
func NewRedisStoreWithClient(client RedisClient, prefix string, timeout time.Duration) *RedisStore {
	if timeout <= 0 {
		timeout = config.RemoteCacheTimeout
	}
	return &RedisStore{client: client, prefix: prefix, timeout: timeout}
}

// Get returns the value for key, ErrMiss for an absent key, ErrUnavailable
// for any transport failure.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefixed(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", unavailable(err)
	}
	return val, nil
}

// Set stores value under key with the given TTL.
func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	if err := r.client.Set(ctx, r.prefixed(key), value, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Delete removes key. Absent keys are not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	if err := r.client.Del(ctx, r.prefixed(key)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// DeleteByPattern removes every key matching the single-wildcard pattern
// using SCAN+DEL loops. Redis MATCH syntax is a superset of ours, so the
// pattern is passed through unchanged apart from the key prefix.
func (r *RedisStore) DeleteByPattern(ctx context.Context, pattern string) error {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	match := r.prefix + pattern
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return unavailable(err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return unavailable(err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) prefixed(key string) string {
	return r.prefix + key
}

func (r *RedisStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
