// Package license contains the subscription domain model and the pure
// license state evaluator.
//
// A subscription's persisted status is only a cached summary of wall-clock
// time plus explicit administrative actions. It goes stale the moment time
// moves, so "is access allowed right now" must always be answered by
// Evaluate, never by reading the status column directly. The evaluator is a
// pure function of (status, end date, now); it signals status transitions
// but never writes them; persisting is the enforcement service's job.
//
// States:
//
//	ACTIVE    now is inside the paid window
//	GRACE     past the end date but inside the grace window; still allowed
//	EXPIRED   past the grace window; denied, should be persisted SUSPENDED
//	SUSPENDED administratively or automatically suspended; denied
//	CANCELLED terminal; denied
package license
