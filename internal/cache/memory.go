package cache

import (
	"context"
	"sync"
	"time"

	"brandgate/internal/clock"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is the in-process fallback cache: a key→(value, expiry) map
// behind a single mutex. It is not a hot path at expected traffic, so one
// coarse lock is deliberate. Expiry is evaluated against the injected clock
// on every read and expired entries are purged lazily by the read that
// discovers them.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   clock.Clock
}

// NewMemoryStore creates an empty fallback store reading time from clk.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clk,
	}
}

// Get returns the live value for key or ErrMiss. An entry whose expiry has
// passed is logically absent even before it is physically purged.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", ErrMiss
	}
	if !m.clock.Now().Before(entry.expiresAt) {
		// Lazy purge; re-check under the write lock since another reader may
		// have raced us here.
		m.mu.Lock()
		if current, still := m.entries[key]; still && !m.clock.Now().Before(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", ErrMiss
	}
	return entry.value, nil
}

// Set stores value under key until now+ttl.
func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: m.clock.Now().Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

// Delete removes key if present.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// DeleteByPattern removes every key matching the single-wildcard pattern
// with a linear scan.
func (m *MemoryStore) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	for key := range m.entries {
		if matchPattern(pattern, key) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
	return nil
}

// Len reports the number of physical entries, expired ones included. Used
// by tests and stats.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
