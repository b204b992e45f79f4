package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"brandgate/internal/clock"
)

// Facade is the single entry point to the cache layer. It owns the remote
// adapter (optional) and the in-process fallback, normalizes their errors,
// and serializes values across the boundary. Construct one per process and
// inject it; lifecycle belongs to the composition root.
type Facade struct {
	remote   Store
	fallback *MemoryStore
	logger   *slog.Logger
	group    singleflight.Group

	// warned tracks which ops have already logged a remote failure at warn
	// level; repeats drop to debug. Keyed by op name so the map is bounded
	// no matter how error texts vary.
	warnedMu sync.Mutex
	warned   map[string]struct{}
}

// New creates a Facade. A nil remote store selects fallback-only mode, which
// is a supported configuration for tests and single-node deployments, so it
// is announced once at info level and never again.
func New(remote Store, clk clock.Clock, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Facade{
		remote:   remote,
		fallback: NewMemoryStore(clk),
		logger:   logger.With(slog.String("component", "cache")),
		warned:   make(map[string]struct{}),
	}
	if remote == nil {
		f.logger.Info("remote cache not configured, using in-process fallback only")
	}
	return f
}

// GetRaw returns the serialized value for key, consulting the remote store
// first and the fallback on remote miss or unavailability.
func (f *Facade) GetRaw(ctx context.Context, key string) (string, error) {
	if f.remote != nil {
		val, err := f.remote.Get(ctx, key)
		switch {
		case err == nil:
			cacheHits.WithLabelValues(storeRemote).Inc()
			return val, nil
		case errors.Is(err, ErrUnavailable):
			f.warnUnavailable(ctx, "get", err)
			fallbackCalls.WithLabelValues("get").Inc()
		}
		// Remote miss or unavailable: the fallback may hold entries written
		// during an outage.
	}

	val, err := f.fallback.Get(ctx, key)
	if err != nil {
		cacheMisses.Inc()
		return "", ErrMiss
	}
	cacheHits.WithLabelValues(storeFallback).Inc()
	return val, nil
}

// Set serializes value and stores it under key with the given TTL. The
// write goes to the remote store when it accepts it and to the fallback
// otherwise; an uncertain remote ack counts as a failure, so the value is
// never assumed to have landed remotely.
func (f *Facade) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.setRaw(ctx, key, string(data), ttl)
}

func (f *Facade) setRaw(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.remote != nil {
		err := f.remote.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return err
		}
		f.warnUnavailable(ctx, "set", err)
		fallbackCalls.WithLabelValues("set").Inc()
	}
	return f.fallback.Set(ctx, key, value, ttl)
}

// Delete removes key from both stores. Remote unavailability is absorbed;
// the fallback delete always happens.
func (f *Facade) Delete(ctx context.Context, key string) error {
	if f.remote != nil {
		if err := f.remote.Delete(ctx, key); err != nil && errors.Is(err, ErrUnavailable) {
			f.warnUnavailable(ctx, "delete", err)
			fallbackCalls.WithLabelValues("delete").Inc()
		}
	}
	return f.fallback.Delete(ctx, key)
}

// DeleteByPattern removes matching keys from both stores using the shared
// single-wildcard semantics.
func (f *Facade) DeleteByPattern(ctx context.Context, pattern string) error {
	if f.remote != nil {
		if err := f.remote.DeleteByPattern(ctx, pattern); err != nil && errors.Is(err, ErrUnavailable) {
			f.warnUnavailable(ctx, "delete_by_pattern", err)
			fallbackCalls.WithLabelValues("delete_by_pattern").Inc()
		}
	}
	return f.fallback.DeleteByPattern(ctx, pattern)
}

func (f *Facade) warnUnavailable(ctx context.Context, op string, err error) {
	f.warnedMu.Lock()
	_, seen := f.warned[op]
	if !seen {
		f.warned[op] = struct{}{}
	}
	f.warnedMu.Unlock()

	if seen {
		f.logger.DebugContext(ctx, "remote cache unavailable, using fallback",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return
	}
	f.logger.WarnContext(ctx, "remote cache unavailable, using fallback",
		slog.String("op", op),
		slog.String("error", err.Error()))
}

// Get retrieves and deserializes the value for key. The second return value
// reports whether a live entry was found. A corrupt entry is dropped and
// treated as a miss.
func Get[T any](ctx context.Context, f *Facade, key string) (T, bool, error) {
	var zero T
	raw, err := f.GetRaw(ctx, key)
	if err != nil {
		return zero, false, nil
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		f.logger.WarnContext(ctx, "dropping corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		_ = f.Delete(ctx, key)
		return zero, false, nil
	}
	return value, true, nil
}

// ReadThrough returns the cached value for key or, on miss, computes it with
// producer, caches it for ttl, and returns it. Concurrent misses for the
// same key are collapsed with singleflight as a best-effort optimization;
// producers must be idempotent since the collapse is not a hard guarantee
// across processes. A failure to cache the produced value is logged and
// absorbed; the caller still gets the value.
func ReadThrough[T any](ctx context.Context, f *Facade, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	if value, ok, _ := Get[T](ctx, f, key); ok {
		return value, nil
	}

	result, err, _ := f.group.Do(key, func() (any, error) {
		// Another flight may have filled the entry while we waited.
		if value, ok, _ := Get[T](ctx, f, key); ok {
			return value, nil
		}

		producerCalls.Inc()
		value, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		if cacheErr := f.Set(ctx, key, value, ttl); cacheErr != nil {
			f.logger.WarnContext(ctx, "failed to cache produced value",
				slog.String("key", key),
				slog.String("error", cacheErr.Error()))
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
