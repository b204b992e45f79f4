package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"brandgate/internal/license"
)

// MemoryStore is an in-memory Store for tests and the dev harness.
type MemoryStore struct {
	mu            sync.RWMutex
	subscriptions map[uuid.UUID]*license.Subscription
	features      map[uuid.UUID]*license.PlanFeatures
	branchCounts  map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscriptions: make(map[uuid.UUID]*license.Subscription),
		features:      make(map[uuid.UUID]*license.PlanFeatures),
		branchCounts:  make(map[string]int),
	}
}

// PutSubscription inserts or replaces a subscription.
func (m *MemoryStore) PutSubscription(sub *license.Subscription) {
	m.mu.Lock()
	copied := *sub
	m.subscriptions[sub.ID] = &copied
	m.mu.Unlock()
}

// PutPlanFeatures sets the plan features for a subscription.
func (m *MemoryStore) PutPlanFeatures(subscriptionID uuid.UUID, features *license.PlanFeatures) {
	m.mu.Lock()
	m.features[subscriptionID] = features
	m.mu.Unlock()
}

// SetBranchCount sets the tenant's branch count.
func (m *MemoryStore) SetBranchCount(tenantID string, count int) {
	m.mu.Lock()
	m.branchCounts[tenantID] = count
	m.mu.Unlock()
}

// SubscriptionByLicenseKey implements Store.
func (m *MemoryStore) SubscriptionByLicenseKey(_ context.Context, key string) (*license.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subscriptions {
		if sub.LicenseKey == key {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// SubscriptionByTenant implements Store.
func (m *MemoryStore) SubscriptionByTenant(_ context.Context, tenantID string) (*license.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subscriptions {
		if sub.TenantID == tenantID {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateSubscriptionStatus implements Store.
func (m *MemoryStore) UpdateSubscriptionStatus(_ context.Context, id uuid.UUID, status license.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subscriptions[id]
	if !ok {
		return ErrNotFound
	}
	sub.Status = status
	return nil
}

// CountBranches implements Store.
func (m *MemoryStore) CountBranches(_ context.Context, tenantID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.branchCounts[tenantID], nil
}

// PlanFeatures implements Store.
func (m *MemoryStore) PlanFeatures(_ context.Context, subscriptionID uuid.UUID) (*license.PlanFeatures, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	features, ok := m.features[subscriptionID]
	if !ok {
		return nil, ErrNotFound
	}
	return features, nil
}

// SubscriptionStatus returns the persisted status for assertions in tests.
func (m *MemoryStore) SubscriptionStatus(id uuid.UUID) (license.Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subscriptions[id]
	if !ok {
		return "", false
	}
	return sub.Status, true
}
