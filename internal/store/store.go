// Package store defines the data-store collaborator contract the
// enforcement core reads and writes subscriptions through. Persistence
// itself is out of scope; the surrounding product supplies the real
// implementation, and MemoryStore backs tests and the dev harness.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"brandgate/internal/license"
)

// ErrNotFound marks a license key or tenant with no subscription record.
// Enforcement treats it as a denial, not an exceptional condition.
var ErrNotFound = errors.New("subscription not found")

// Store is the persistence contract consumed by the enforcement service.
type Store interface {
	// SubscriptionByLicenseKey returns the subscription for key or
	// ErrNotFound.
	SubscriptionByLicenseKey(ctx context.Context, key string) (*license.Subscription, error)

	// SubscriptionByTenant returns the tenant's current subscription or
	// ErrNotFound.
	SubscriptionByTenant(ctx context.Context, tenantID string) (*license.Subscription, error)

	// UpdateSubscriptionStatus persists a status transition. The write is a
	// full replacement of the field and is idempotent.
	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status license.Status) error

	// CountBranches returns the tenant's current branch count.
	CountBranches(ctx context.Context, tenantID string) (int, error)

	// PlanFeatures returns the feature set of the subscription's plan.
	PlanFeatures(ctx context.Context, subscriptionID uuid.UUID) (*license.PlanFeatures, error)
}
