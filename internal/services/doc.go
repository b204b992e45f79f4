// Package services contains the subscription enforcement service: the
// orchestration layer that answers "is this license valid" and "can this
// tenant create another branch".
//
// Validation reads the subscription straight from the data store so the
// verdict reflects the latest administrative status; only the quota inputs
// (plan features, branch counts) are memoized through the cache facade,
// because slightly stale counts are acceptable there. Any data-store
// failure during validation fails closed: the caller sees a denial with a
// generic message, never the underlying I/O error.
package services
