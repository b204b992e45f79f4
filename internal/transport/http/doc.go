// Package http contains the chi HTTP handlers for the enforcement API:
// license validation, tenant subscription status, branch quota checks, and
// health. Handlers translate service verdicts into JSON responses and RFC
// 7807 problem documents; they hold no enforcement logic of their own.
package http
