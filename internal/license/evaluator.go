package license

import (
	"fmt"
	"time"

	"brandgate/internal/config"
)

// Evaluation is the evaluator's verdict for one subscription at one instant.
type Evaluation struct {
	// State is the time-aware license state.
	State State
	// Allowed reports whether access is granted.
	Allowed bool
	// Message is a human-readable reason or warning, safe to surface to the
	// tenant.
	Message string
	// PersistAs is the status the subscription should carry after this
	// evaluation. The evaluator never writes; the enforcement service
	// persists this when it differs from the stored status.
	PersistAs Status
}

// Evaluate computes the license state for a subscription with the given
// persisted status and end date at instant now, using the default grace
// period.
func Evaluate(status Status, endDate, now time.Time) Evaluation {
	return EvaluateWithGrace(status, endDate, now, config.GracePeriod)
}

// EvaluateWithGrace is Evaluate with an explicit grace window.
//
// CANCELLED and SUSPENDED short-circuit before any date comparison: the only
// way back from them is an external renewal rewriting status and end date.
// Both boundaries are inclusive, so access is not lost at the exact instant
// of expiry and the grace window engages from the first instant after it.
func EvaluateWithGrace(status Status, endDate, now time.Time, grace time.Duration) Evaluation {
	switch status {
	case StatusCancelled:
		return Evaluation{
			State:     StateCancelled,
			Allowed:   false,
			Message:   "subscription has been cancelled",
			PersistAs: StatusCancelled,
		}
	case StatusSuspended:
		return Evaluation{
			State:     StateSuspended,
			Allowed:   false,
			Message:   "subscription is suspended; renew to restore access",
			PersistAs: StatusSuspended,
		}
	}

	if !now.After(endDate) {
		return Evaluation{
			State:     StateActive,
			Allowed:   true,
			Message:   "subscription is active",
			PersistAs: StatusActive,
		}
	}

	graceEnd := endDate.Add(grace)
	if !now.After(graceEnd) {
		daysLeft := daysUntil(now, graceEnd)
		return Evaluation{
			State:     StateGrace,
			Allowed:   true,
			Message:   fmt.Sprintf("subscription expired; access ends in %d day(s) unless renewed", daysLeft),
			PersistAs: StatusActive,
		}
	}

	return Evaluation{
		State:     StateExpired,
		Allowed:   false,
		Message:   "subscription expired beyond the grace period and has been suspended",
		PersistAs: StatusSuspended,
	}
}

// daysUntil counts remaining whole days from now to deadline, rounding up so
// a grace window never reads "0 days" while access is still allowed.
func daysUntil(now, deadline time.Time) int {
	remaining := deadline.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}
