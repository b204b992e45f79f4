// Package shared provides common utilities and test helpers used across the
// brandgate codebase. It is a home for functionality that does not belong to
// any specific domain layer.
//
// The testutil subpackage provides fixture generators, a manual clock, and a
// buffered slog handler for asserting on structured log output. Nothing in
// here carries business logic.
package shared
