// Package testutil provides fixtures and fakes shared by brandgate tests.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"brandgate/internal/license"
)

// FixtureNow is the reference instant fixtures are built around.
var FixtureNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// ActiveSubscription returns a subscription well inside its paid window.
func ActiveSubscription(tenantID string) *license.Subscription {
	return &license.Subscription{
		ID:         uuid.New(),
		TenantID:   tenantID,
		LicenseKey: "BG-AC71-VE55-1234-5678",
		Status:     license.StatusActive,
		StartDate:  FixtureNow.Add(-30 * 24 * time.Hour),
		EndDate:    FixtureNow.Add(335 * 24 * time.Hour),
		PlanID:     "plan-standard",
	}
}

// GraceSubscription returns a subscription two days past expiry, still
// inside the seven-day grace window.
func GraceSubscription(tenantID string) *license.Subscription {
	sub := ActiveSubscription(tenantID)
	sub.LicenseKey = "BG-6RAC-E222-1234-5678"
	sub.StartDate = FixtureNow.Add(-367 * 24 * time.Hour)
	sub.EndDate = FixtureNow.Add(-2 * 24 * time.Hour)
	return sub
}

// LapsedSubscription returns a subscription ten days past expiry, beyond the
// grace window, still carrying a stale ACTIVE status.
func LapsedSubscription(tenantID string) *license.Subscription {
	sub := ActiveSubscription(tenantID)
	sub.LicenseKey = "BG-LAP5-ED99-1234-5678"
	sub.StartDate = FixtureNow.Add(-375 * 24 * time.Hour)
	sub.EndDate = FixtureNow.Add(-10 * 24 * time.Hour)
	return sub
}

// SuspendedSubscription returns an administratively suspended subscription
// whose dates would otherwise be valid.
func SuspendedSubscription(tenantID string) *license.Subscription {
	sub := ActiveSubscription(tenantID)
	sub.LicenseKey = "BG-5U5P-E111-1234-5678"
	sub.Status = license.StatusSuspended
	return sub
}

// CancelledSubscription returns a cancelled subscription whose dates would
// otherwise be valid.
func CancelledSubscription(tenantID string) *license.Subscription {
	sub := ActiveSubscription(tenantID)
	sub.LicenseKey = "BG-CANC-E333-1234-5678"
	sub.Status = license.StatusCancelled
	return sub
}

// StandardPlanFeatures returns a plan capped at maxBranches with the usual
// flags.
func StandardPlanFeatures(maxBranches int) *license.PlanFeatures {
	return &license.PlanFeatures{
		MaxBranches: maxBranches,
		Flags: map[string]bool{
			"analytics":   true,
			"white_label": false,
		},
	}
}
