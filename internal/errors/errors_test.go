package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusForbidden, "/errors/license-denied", "License Denied", "expired", "/api/validate#abc")
	pd.WithExtension("error_code", CodeExpired).WithExtension("trace_id", "abc")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "/errors/license-denied", decoded["type"])
	assert.Equal(t, "License Denied", decoded["title"])
	assert.Equal(t, float64(http.StatusForbidden), decoded["status"])
	assert.Equal(t, CodeExpired, decoded["error_code"])
	assert.Equal(t, "abc", decoded["trace_id"])
}

func TestProblemDetailsRenderSetsStatus(t *testing.T) {
	pd := ValidationFailed("trace-1")

	req := httptest.NewRequest(http.MethodGet, "/api/validate", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, render.Render(rec, req, pd))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeValidationFailed)
}

func TestLicenseDeniedStatusMapping(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeExpired, http.StatusForbidden},
		{CodeSuspended, http.StatusForbidden},
		{CodeCancelled, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidKey, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			pd := LicenseDenied(tt.code, "detail", "trace")
			assert.Equal(t, tt.status, pd.Status)
			assert.Equal(t, tt.code, pd.Extensions["error_code"])
		})
	}
}

func TestProblemDetailsError(t *testing.T) {
	pd := LicenseDenied(CodeExpired, "license expired", "t")
	assert.Equal(t, "License Denied: license expired", pd.Error())
}
