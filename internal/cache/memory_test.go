package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandgate/internal/shared/testutil"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewManualClock(testutil.FixtureNow)
	m := NewMemoryStore(clk)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemoryStoreMiss(t *testing.T) {
	m := NewMemoryStore(testutil.NewManualClock(testutil.FixtureNow))
	_, err := m.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewManualClock(testutil.FixtureNow)
	m := NewMemoryStore(clk)

	require.NoError(t, m.Set(ctx, "k", "v", time.Second))

	// Still live just before the boundary.
	clk.Advance(999 * time.Millisecond)
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	// Logically absent once the TTL elapses, and physically purged by the
	// read that discovers it.
	clk.Advance(time.Millisecond)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStoreRejectsNonPositiveTTL(t *testing.T) {
	m := NewMemoryStore(testutil.NewManualClock(testutil.FixtureNow))
	assert.ErrorIs(t, m.Set(context.Background(), "k", "v", 0), ErrInvalidTTL)
	assert.ErrorIs(t, m.Set(context.Background(), "k", "v", -time.Second), ErrInvalidTTL)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(testutil.NewManualClock(testutil.FixtureNow))

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, m.Delete(ctx, "k"))
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting an absent key is fine.
	assert.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryStoreDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(testutil.NewManualClock(testutil.FixtureNow))

	for _, key := range []string{"brand:1:menu", "brand:2:menu", "tenant:1:features"} {
		require.NoError(t, m.Set(ctx, key, "v", time.Minute))
	}

	require.NoError(t, m.DeleteByPattern(ctx, "brand:*"))

	_, err := m.Get(ctx, "brand:1:menu")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "brand:2:menu")
	assert.ErrorIs(t, err, ErrMiss)

	// Unrelated keys are untouched.
	got, err := m.Get(ctx, "tenant:1:features")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewManualClock(testutil.FixtureNow)
	m := NewMemoryStore(clk)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "k" + string(rune('a'+n%4))
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, key, "v", time.Minute)
				_, _ = m.Get(ctx, key)
				if j%10 == 0 {
					_ = m.DeleteByPattern(ctx, "k*")
				}
			}
		}(i)
	}
	wg.Wait()
}
