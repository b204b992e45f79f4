package license

import (
	"time"

	"github.com/google/uuid"
)

// Status is the persisted subscription status. It is authoritative only
// until re-evaluated against the clock.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusSuspended Status = "SUSPENDED"
	StatusCancelled Status = "CANCELLED"
)

// State is the evaluated, time-aware license state.
type State string

const (
	StateActive    State = "active"
	StateGrace     State = "grace"
	StateExpired   State = "expired"
	StateSuspended State = "suspended"
	StateCancelled State = "cancelled"
)

// Subscription represents one tenant's paid entitlement.
type Subscription struct {
	ID         uuid.UUID `json:"id"`
	TenantID   string    `json:"tenant_id"`
	LicenseKey string    `json:"license_key"`
	Status     Status    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	PlanID     string    `json:"plan_id"`
}

// PlanFeatures carries the entitlements of a subscription's plan.
// MaxBranches <= 0 means unlimited.
type PlanFeatures struct {
	MaxBranches int             `json:"max_branches"`
	Flags       map[string]bool `json:"flags,omitempty"`
}

// HasFlag reports whether a boolean feature flag is enabled for the plan.
func (f *PlanFeatures) HasFlag(name string) bool {
	if f == nil {
		return false
	}
	return f.Flags[name]
}

// Unlimited reports whether the plan places no cap on branches.
func (f *PlanFeatures) Unlimited() bool {
	return f != nil && f.MaxBranches <= 0
}
