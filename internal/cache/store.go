package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Store is the uniform contract over a key-value cache backend. Values are
// opaque strings; serialization happens above this interface.
type Store interface {
	// Get returns the value for key, ErrMiss when the key is absent or
	// logically expired, or ErrUnavailable when the backend cannot be
	// reached.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL. A TTL <= 0 is rejected;
	// every cache entry in this system is bounded.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPattern removes every key matching pattern. Patterns support a
	// single trailing wildcard ("brand:*") or a single leading wildcard
	// ("*:features"); anything else is an exact match.
	DeleteByPattern(ctx context.Context, pattern string) error
}

var (
	// ErrMiss marks a key that is absent or expired.
	ErrMiss = errors.New("cache miss")

	// ErrUnavailable marks a backend that cannot be reached. Callers degrade
	// to the fallback store; the error never escapes the facade.
	ErrUnavailable = errors.New("cache unavailable")

	// ErrInvalidTTL marks a Set with a non-positive TTL.
	ErrInvalidTTL = errors.New("cache ttl must be positive")
)

// matchPattern implements the single-wildcard semantics shared by every
// Store: one trailing or one leading "*", otherwise an exact match. The
// remote and fallback stores must agree on this from the caller's point of
// view, which is why both route through here (the Redis adapter passes the
// pattern to SCAN, whose MATCH syntax is a superset of ours).
func matchPattern(pattern, key string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(key, strings.TrimPrefix(pattern, "*"))
	default:
		return key == pattern
	}
}
