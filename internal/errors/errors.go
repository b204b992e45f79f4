// Package errors defines the sentinel errors and HTTP error responses used
// across the brandgate enforcement core. Sentinels classify failures for
// errors.Is checks; ProblemDetails renders denials as RFC 7807 responses at
// the HTTP gate.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Enforcement sentinel errors.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidLicenseKey    = errors.New("invalid license key format")
	ErrLicenseExpired       = errors.New("license expired")
	ErrLicenseSuspended     = errors.New("license suspended")
	ErrLicenseCancelled     = errors.New("license cancelled")

	// ErrValidationUnavailable marks an internal failure during validation.
	// Enforcement fails closed on it: the caller sees a denial, never the
	// underlying I/O error.
	ErrValidationUnavailable = errors.New("error validating license")
)

// Error codes surfaced in HTTP responses.
const (
	CodeInvalidKey       = "INVALID_LICENSE_KEY"
	CodeNotFound         = "SUBSCRIPTION_NOT_FOUND"
	CodeExpired          = "LICENSE_EXPIRED"
	CodeSuspended        = "LICENSE_SUSPENDED"
	CodeCancelled        = "LICENSE_CANCELLED"
	CodeQuotaExceeded    = "BRANCH_QUOTA_EXCEEDED"
	CodeValidationFailed = "LICENSE_VALIDATION_FAILED"
	CodeRateLimited      = "RATE_LIMITED"
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface.
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// Error implements the error interface so a ProblemDetails can travel as an
// error value.
func (pd *ProblemDetails) Error() string {
	return pd.Title + ": " + pd.Detail
}

// MarshalJSON flattens extensions into the top-level object.
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"type":   pd.Type,
		"title":  pd.Title,
		"status": pd.Status,
	}
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}
	for k, v := range pd.Extensions {
		data[k] = v
	}
	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error.
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details.
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// LicenseDenied builds the response for a subscription the evaluator
// rejected. The detail is the human-readable message produced by the
// enforcement service; internals never leak past it.
func LicenseDenied(code, detail, traceID string) *ProblemDetails {
	status := http.StatusForbidden
	if code == CodeNotFound {
		status = http.StatusNotFound
	}
	if code == CodeInvalidKey {
		status = http.StatusBadRequest
	}
	return NewProblemDetails(
		status,
		"/errors/license-denied",
		"License Denied",
		detail,
		"",
	).WithExtension("error_code", code).
		WithExtension("trace_id", traceID)
}

// ValidationFailed builds the fail-closed response for internal validation
// errors.
func ValidationFailed(traceID string) *ProblemDetails {
	return NewProblemDetails(
		http.StatusServiceUnavailable,
		"/errors/license-validation-failed",
		"License Validation Failed",
		"Unable to validate license. Please try again.",
		"",
	).WithExtension("error_code", CodeValidationFailed).
		WithExtension("trace_id", traceID)
}

// RateLimited builds the response for throttled validation attempts.
func RateLimited(traceID string) *ProblemDetails {
	return NewProblemDetails(
		http.StatusTooManyRequests,
		"/errors/rate-limited",
		"Too Many Requests",
		"Too many license validation attempts. Please try again later.",
		"",
	).WithExtension("error_code", CodeRateLimited).
		WithExtension("trace_id", traceID)
}
