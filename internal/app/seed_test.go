package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandgate/internal/license"
	"brandgate/internal/store"
)

const seedFixture = `
subscriptions:
  - tenant_id: tenant-1
    license_key: BG-SEED-AAAA-BBBB-CCCC
    status: ACTIVE
    start_date: 2025-01-01T00:00:00Z
    end_date: 2026-01-01T00:00:00Z
    plan:
      max_branches: 4
      flags:
        analytics: true
    branches: 2
  - tenant_id: tenant-2
    license_key: BG-SEED-DDDD-EEEE-FFFF
    status: SUSPENDED
    start_date: 2024-01-01T00:00:00Z
    end_date: 2026-01-01T00:00:00Z
    plan:
      max_branches: 0
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, LoadSeedFile(writeSeedFile(t, seedFixture), st))

	sub, err := st.SubscriptionByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, license.StatusActive, sub.Status)
	assert.Equal(t, "plan-standard", sub.PlanID)

	features, err := st.PlanFeatures(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, features.MaxBranches)
	assert.True(t, features.HasFlag("analytics"))

	count, err := st.CountBranches(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	suspended, err := st.SubscriptionByTenant(ctx, "tenant-2")
	require.NoError(t, err)
	assert.Equal(t, license.StatusSuspended, suspended.Status)
}

func TestLoadSeedFileRejectsBadEntries(t *testing.T) {
	st := store.NewMemoryStore()

	err := LoadSeedFile(writeSeedFile(t, "subscriptions:\n  - tenant_id: t\n    license_key: k\n    status: NOPE\n"), st)
	assert.ErrorContains(t, err, "unknown status")

	err = LoadSeedFile(writeSeedFile(t, "subscriptions:\n  - status: ACTIVE\n"), st)
	assert.ErrorContains(t, err, "required")

	err = LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"), st)
	assert.ErrorContains(t, err, "failed to read")
}
