package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandgate/internal/license"
	"brandgate/internal/shared/testutil"
)

func TestMemoryStoreSubscriptionLookups(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	sub := testutil.ActiveSubscription("tenant-1")
	st.PutSubscription(sub)

	byKey, err := st.SubscriptionByLicenseKey(ctx, sub.LicenseKey)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, byKey.ID)

	byTenant, err := st.SubscriptionByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, byTenant.ID)

	_, err = st.SubscriptionByLicenseKey(ctx, "BG-XXXX-XXXX-XXXX-XXXX")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.SubscriptionByTenant(ctx, "tenant-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	sub := testutil.ActiveSubscription("tenant-1")
	st.PutSubscription(sub)

	got, err := st.SubscriptionByLicenseKey(ctx, sub.LicenseKey)
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	got.Status = license.StatusCancelled
	again, err := st.SubscriptionByLicenseKey(ctx, sub.LicenseKey)
	require.NoError(t, err)
	assert.Equal(t, license.StatusActive, again.Status)
}

func TestMemoryStoreUpdateStatus(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	sub := testutil.ActiveSubscription("tenant-1")
	st.PutSubscription(sub)

	require.NoError(t, st.UpdateSubscriptionStatus(ctx, sub.ID, license.StatusSuspended))

	status, ok := st.SubscriptionStatus(sub.ID)
	require.True(t, ok)
	assert.Equal(t, license.StatusSuspended, status)

	err := st.UpdateSubscriptionStatus(ctx, testutil.ActiveSubscription("other").ID, license.StatusActive)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreQuotaInputs(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	sub := testutil.ActiveSubscription("tenant-1")
	st.PutSubscription(sub)
	st.PutPlanFeatures(sub.ID, testutil.StandardPlanFeatures(7))
	st.SetBranchCount("tenant-1", 4)

	features, err := st.PlanFeatures(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, features.MaxBranches)
	assert.True(t, features.HasFlag("analytics"))

	count, err := st.CountBranches(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// Unknown tenants have zero branches, not an error.
	count, err = st.CountBranches(ctx, "tenant-2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
