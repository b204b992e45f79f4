package services

import (
	"context"

	"brandgate/internal/license"
)

// Notifier receives subscription lifecycle events. Dispatch (email, SMS) is
// the surrounding product's concern; the enforcement service only raises the
// event, best-effort, and never fails a validation over it.
type Notifier interface {
	SubscriptionSuspended(ctx context.Context, sub *license.Subscription)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// SubscriptionSuspended implements Notifier.
func (NopNotifier) SubscriptionSuspended(context.Context, *license.Subscription) {}
