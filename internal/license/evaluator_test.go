package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brandgate/internal/config"
)

var (
	baseNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
)

func TestEvaluateActiveWindow(t *testing.T) {
	tests := []struct {
		name    string
		endDate time.Time
	}{
		{"end far in the future", baseNow.Add(365 * 24 * time.Hour)},
		{"end tomorrow", baseNow.Add(24 * time.Hour)},
		{"end exactly now", baseNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(StatusActive, tt.endDate, baseNow)
			assert.Equal(t, StateActive, ev.State)
			assert.True(t, ev.Allowed)
			assert.Equal(t, StatusActive, ev.PersistAs)
		})
	}
}

func TestEvaluateGraceWindow(t *testing.T) {
	tests := []struct {
		name    string
		endDate time.Time
	}{
		{"one second past expiry", baseNow.Add(-time.Second)},
		{"two days past expiry", baseNow.Add(-2 * 24 * time.Hour)},
		{"exactly at grace boundary", baseNow.Add(-config.GracePeriod)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(StatusActive, tt.endDate, baseNow)
			assert.Equal(t, StateGrace, ev.State)
			assert.True(t, ev.Allowed, "grace period keeps access allowed")
			assert.Equal(t, StatusActive, ev.PersistAs, "grace does not rewrite status")
			assert.Contains(t, ev.Message, "expired")
		})
	}
}

func TestEvaluatePastGraceSignalsSuspension(t *testing.T) {
	tests := []struct {
		name    string
		endDate time.Time
	}{
		{"one second past grace", baseNow.Add(-config.GracePeriod - time.Second)},
		{"ten days past expiry", baseNow.Add(-10 * 24 * time.Hour)},
		{"a year past expiry", baseNow.Add(-365 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(StatusActive, tt.endDate, baseNow)
			assert.Equal(t, StateExpired, ev.State)
			assert.False(t, ev.Allowed)
			assert.Equal(t, StatusSuspended, ev.PersistAs, "past grace should transition to SUSPENDED")
		})
	}
}

func TestEvaluateTerminalStatusesShortCircuit(t *testing.T) {
	// Dates that would otherwise evaluate as active must not matter.
	futureEnd := baseNow.Add(365 * 24 * time.Hour)

	ev := Evaluate(StatusCancelled, futureEnd, baseNow)
	assert.Equal(t, StateCancelled, ev.State)
	assert.False(t, ev.Allowed)
	assert.Equal(t, StatusCancelled, ev.PersistAs)

	ev = Evaluate(StatusSuspended, futureEnd, baseNow)
	assert.Equal(t, StateSuspended, ev.State)
	assert.False(t, ev.Allowed)
	assert.Equal(t, StatusSuspended, ev.PersistAs, "no read-side promotion from SUSPENDED")
}

func TestEvaluateRenewalReopensExpired(t *testing.T) {
	// A renewal writes a future end date first; a stale EXPIRED status must
	// not keep the tenant locked out.
	ev := Evaluate(StatusExpired, baseNow.Add(30*24*time.Hour), baseNow)
	assert.Equal(t, StateActive, ev.State)
	assert.True(t, ev.Allowed)
	assert.Equal(t, StatusActive, ev.PersistAs)
}

func TestEvaluateWithGraceCustomWindow(t *testing.T) {
	grace := 48 * time.Hour
	endDate := baseNow.Add(-24 * time.Hour)

	ev := EvaluateWithGrace(StatusActive, endDate, baseNow, grace)
	assert.Equal(t, StateGrace, ev.State)

	ev = EvaluateWithGrace(StatusActive, endDate, baseNow.Add(25*time.Hour), grace)
	assert.Equal(t, StateExpired, ev.State)
}

func TestEvaluateGraceIndependentOfConstant(t *testing.T) {
	// Active verdicts hold for any grace value while now <= endDate.
	for _, grace := range []time.Duration{0, time.Hour, config.GracePeriod, 30 * 24 * time.Hour} {
		ev := EvaluateWithGrace(StatusActive, baseNow, baseNow, grace)
		assert.True(t, ev.Allowed, "grace=%s", grace)
		assert.Equal(t, StateActive, ev.State)
	}
}

func TestDaysUntilRoundsUp(t *testing.T) {
	deadline := baseNow.Add(36 * time.Hour)
	assert.Equal(t, 2, daysUntil(baseNow, deadline))
	assert.Equal(t, 1, daysUntil(baseNow, baseNow.Add(24*time.Hour)))
}
