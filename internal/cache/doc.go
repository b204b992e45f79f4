// Package cache implements the cache-aside layer used to memoize expensive
// validation and lookup calls.
//
// A Facade fronts two Store implementations: a remote Redis adapter and an
// in-process fallback. Every call attempts the remote store first and
// degrades to the fallback for that call only when the remote reports
// ErrUnavailable. Outages are treated as transient, so there is no sticky
// "remote is down" state. When no remote address is configured the facade
// runs fallback-only, which is a valid mode, not an error.
//
// Values cross the facade boundary as JSON; callers work with typed values
// through the generic Get and ReadThrough helpers.
package cache
