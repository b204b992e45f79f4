package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "brandgate/internal/errors"
	"brandgate/internal/infrastructure"
	"brandgate/internal/license"
	"brandgate/internal/services"
)

// LicenseHandler serves the license validation and quota endpoints.
type LicenseHandler struct {
	service  services.Enforcement
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLicenseHandler creates a license handler.
func NewLicenseHandler(service services.Enforcement, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "license")),
	}
}

// ValidateRequest is the POST /validate payload.
type ValidateRequest struct {
	LicenseKey string `json:"license_key" validate:"required,min=8"`
}

// Bind implements render.Binder.
func (v *ValidateRequest) Bind(*http.Request) error { return nil }

// ValidateResponse is the POST /validate response body.
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	State     string    `json:"state,omitempty"`
	Message   string    `json:"message"`
	TenantID  string    `json:"tenant_id,omitempty"`
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
}

// QuotaResponse is the branch quota response body.
type QuotaResponse struct {
	Allowed      bool   `json:"allowed"`
	CurrentCount int    `json:"current_count"`
	MaxAllowed   int    `json:"max_allowed"`
	Message      string `json:"message"`
	TraceID      string `json:"trace_id"`
}

// Routes returns the chi router for license endpoints.
func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/validate", h.Validate)
	r.Get("/tenants/{tenantID}/subscription", h.TenantSubscription)
	r.Get("/tenants/{tenantID}/branch-quota", h.BranchQuota)
	return r
}

// Validate handles POST /api/license/validate.
func (h *LicenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("license-handler")
	ctx, span := tracer.Start(ctx, "license_handler.validate",
		trace.WithAttributes(attribute.String("http.route", "/api/license/validate")))
	defer span.End()

	traceID := infrastructure.TraceIDFromContext(ctx)

	var req ValidateRequest
	if err := render.Bind(r, &req); err != nil {
		render.Render(w, r, apierrors.LicenseDenied(apierrors.CodeInvalidKey,
			"request body must be JSON with a license_key field", traceID))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		render.Render(w, r, apierrors.LicenseDenied(apierrors.CodeInvalidKey,
			"license_key is required", traceID))
		return
	}

	result := h.service.ValidateLicense(ctx, req.LicenseKey)
	span.SetAttributes(
		attribute.Bool("license.valid", result.Valid),
		attribute.String("license.state", string(result.State)),
	)

	h.logger.InfoContext(ctx, "license validation request",
		slog.String("license_key", license.MaskKey(license.NormalizeKey(req.LicenseKey))),
		slog.Bool("valid", result.Valid),
		slog.String("state", string(result.State)),
		slog.String("trace_id", traceID))

	resp := &ValidateResponse{
		Valid:     result.Valid,
		State:     string(result.State),
		Message:   result.Message,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}
	if result.Subscription != nil {
		resp.TenantID = result.Subscription.TenantID
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// TenantSubscription handles GET /api/license/tenants/{tenantID}/subscription.
func (h *LicenseHandler) TenantSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.TraceIDFromContext(ctx)
	tenantID := chi.URLParam(r, "tenantID")

	result := h.service.ValidateTenantSubscription(ctx, tenantID)

	resp := &ValidateResponse{
		Valid:     result.Valid,
		State:     string(result.State),
		Message:   result.Message,
		TenantID:  tenantID,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// BranchQuota handles GET /api/license/tenants/{tenantID}/branch-quota.
func (h *LicenseHandler) BranchQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.TraceIDFromContext(ctx)
	tenantID := chi.URLParam(r, "tenantID")

	result := h.service.CanCreateBranch(ctx, tenantID)

	h.logger.DebugContext(ctx, "branch quota request",
		slog.String("tenant_id", tenantID),
		slog.Bool("allowed", result.Allowed),
		slog.Int("current_count", result.CurrentCount),
		slog.String("trace_id", traceID))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &QuotaResponse{
		Allowed:      result.Allowed,
		CurrentCount: result.CurrentCount,
		MaxAllowed:   result.MaxAllowed,
		Message:      result.Message,
		TraceID:      traceID,
	})
}
