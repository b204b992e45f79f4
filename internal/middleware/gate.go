package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"brandgate/internal/clock"
	"brandgate/internal/config"
	"brandgate/internal/errors"
	"brandgate/internal/infrastructure"
	"brandgate/internal/license"
	"brandgate/internal/services"
)

// LicenseKeyHeader carries the license key on inbound requests.
const LicenseKeyHeader = "X-License-Key"

// validationKey is the context key under which the gate stores the verdict.
const validationKey contextKey = "license-validation"

const (
	// maxVerdictEntries caps the verdict cache. The gate sees unauthenticated
	// input, so the map must stay bounded no matter what keys are thrown at
	// it.
	maxVerdictEntries = 4096

	// verdictSweepInterval is how often expired entries are swept out,
	// piggybacked on writes.
	verdictSweepInterval = time.Minute
)

// LicenseGate is the chi middleware that enforces a valid license on every
// request. Verdicts are cached per key: positive ones for the verdict TTL,
// negative ones for a shorter window so a renewal is picked up quickly.
type LicenseGate struct {
	enforcement services.Enforcement
	logger      *slog.Logger
	clock       clock.Clock

	validTTL    time.Duration
	negativeTTL time.Duration

	excludePaths    []string
	excludePrefixes []string

	mu        sync.Mutex
	verdicts  map[string]verdictEntry
	lastSweep time.Time
}

type verdictEntry struct {
	result    *services.ValidationResult
	expiresAt time.Time
}

// NewLicenseGate creates the gate with the default TTLs and exclusions.
func NewLicenseGate(enforcement services.Enforcement, clk clock.Clock, logger *slog.Logger) *LicenseGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &LicenseGate{
		enforcement: enforcement,
		logger:      logger.With(slog.String("component", "license_gate")),
		clock:       clk,
		validTTL:    config.VerdictCacheTTL,
		negativeTTL: config.VerdictCacheNegativeTTL,
		excludePaths: []string{
			"/health",
			"/metrics",
			"/favicon.ico",
		},
		verdicts:  make(map[string]verdictEntry),
		lastSweep: clk.Now(),
	}
}

// AddExcludePath exempts an exact path from enforcement.
func (g *LicenseGate) AddExcludePath(path string) {
	g.excludePaths = append(g.excludePaths, path)
}

// AddExcludePrefix exempts a path prefix from enforcement.
func (g *LicenseGate) AddExcludePrefix(prefix string) {
	g.excludePrefixes = append(g.excludePrefixes, prefix)
}

// SetVerdictTTLs overrides the verdict cache windows.
func (g *LicenseGate) SetVerdictTTLs(valid, negative time.Duration) {
	g.validTTL = valid
	g.negativeTTL = negative
}

// InvalidateVerdicts drops every cached verdict.
func (g *LicenseGate) InvalidateVerdicts() {
	g.mu.Lock()
	g.verdicts = make(map[string]verdictEntry)
	g.mu.Unlock()
}

// Handler returns the middleware handler.
func (g *LicenseGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := otel.Tracer("license-gate")

		ctx, span := tracer.Start(ctx, "license_gate.enforce",
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.Path),
			),
		)
		defer span.End()
		r = r.WithContext(ctx)

		traceID := infrastructure.TraceIDFromContext(ctx)

		if g.shouldExcludePath(r.URL.Path) {
			span.SetAttributes(attribute.String("license.enforcement", "excluded"))
			next.ServeHTTP(w, r)
			return
		}

		key := license.NormalizeKey(r.Header.Get(LicenseKeyHeader))
		if key == "" {
			span.SetAttributes(attribute.String("license.enforcement", "missing_key"))
			g.logger.DebugContext(ctx, "request without license key",
				slog.String("path", r.URL.Path),
				slog.String("trace_id", traceID))
			render.Render(w, r, errors.LicenseDenied(errors.CodeInvalidKey,
				"missing "+LicenseKeyHeader+" header", traceID))
			return
		}

		// Format-invalid keys are rejected without touching the verdict
		// cache: there is no lookup to memoize, and caching them would let
		// arbitrary garbage keys grow the map.
		if !license.ValidateKeyFormat(key) {
			span.SetAttributes(attribute.String("license.enforcement", "malformed_key"))
			g.logger.DebugContext(ctx, "request with malformed license key",
				slog.String("path", r.URL.Path),
				slog.String("license_key", license.MaskKey(key)),
				slog.String("trace_id", traceID))
			render.Render(w, r, errors.LicenseDenied(errors.CodeInvalidKey,
				"invalid license key format", traceID))
			return
		}

		result, cached := g.cachedVerdict(key)
		if !cached {
			result = g.enforcement.ValidateLicense(ctx, key)
			g.storeVerdict(key, result)
		}
		span.SetAttributes(
			attribute.Bool("license.valid", result.Valid),
			attribute.String("license.state", string(result.State)),
			attribute.Bool("license.verdict_cached", cached),
		)

		if !result.Valid {
			g.logger.InfoContext(ctx, "request denied by license gate",
				slog.String("path", r.URL.Path),
				slog.String("license_key", license.MaskKey(key)),
				slog.String("state", string(result.State)),
				slog.Bool("verdict_cached", cached),
				slog.String("trace_id", traceID))
			render.Render(w, r, g.denialProblem(result, traceID))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithValidation(ctx, result)))
	})
}

// WithValidation stores the gate's verdict in ctx for downstream handlers.
func WithValidation(ctx context.Context, result *services.ValidationResult) context.Context {
	return context.WithValue(ctx, validationKey, result)
}

// ValidationFromContext returns the verdict the gate stored, if any.
func ValidationFromContext(ctx context.Context) (*services.ValidationResult, bool) {
	result, ok := ctx.Value(validationKey).(*services.ValidationResult)
	return result, ok
}

func (g *LicenseGate) shouldExcludePath(path string) bool {
	for _, excluded := range g.excludePaths {
		if path == excluded {
			return true
		}
	}
	for _, prefix := range g.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *LicenseGate) cachedVerdict(key string) (*services.ValidationResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.verdicts[key]
	if !ok {
		return nil, false
	}
	if g.clock.Now().After(entry.expiresAt) {
		// Lazy purge: the read that discovers an expired verdict removes it.
		delete(g.verdicts, key)
		return nil, false
	}
	return entry.result, true
}

func (g *LicenseGate) storeVerdict(key string, result *services.ValidationResult) {
	ttl := g.validTTL
	if !result.Valid {
		ttl = g.negativeTTL
	}
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.lastSweep) >= verdictSweepInterval {
		g.sweepLocked(now)
		g.lastSweep = now
	}
	if len(g.verdicts) >= maxVerdictEntries {
		g.evictOldestLocked()
	}
	g.verdicts[key] = verdictEntry{result: result, expiresAt: now.Add(ttl)}
}

// sweepLocked drops every expired entry. Callers hold g.mu.
func (g *LicenseGate) sweepLocked(now time.Time) {
	for key, entry := range g.verdicts {
		if now.After(entry.expiresAt) {
			delete(g.verdicts, key)
		}
	}
}

// evictOldestLocked removes the entry closest to expiry so the map never
// exceeds its cap. Callers hold g.mu.
func (g *LicenseGate) evictOldestLocked() {
	var oldestKey string
	var oldestExpiry time.Time
	for key, entry := range g.verdicts {
		if oldestKey == "" || entry.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(g.verdicts, oldestKey)
	}
}

// verdictCount reports the number of cached verdicts, expired ones included.
func (g *LicenseGate) verdictCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.verdicts)
}

// denialProblem maps a denial to its RFC 7807 response. Internal failures
// keep their generic 503; everything else is a 4xx with an error code.
func (g *LicenseGate) denialProblem(result *services.ValidationResult, traceID string) *errors.ProblemDetails {
	switch result.State {
	case license.StateExpired:
		return errors.LicenseDenied(errors.CodeExpired, result.Message, traceID)
	case license.StateSuspended:
		return errors.LicenseDenied(errors.CodeSuspended, result.Message, traceID)
	case license.StateCancelled:
		return errors.LicenseDenied(errors.CodeCancelled, result.Message, traceID)
	}
	switch {
	case strings.Contains(result.Message, "invalid license key"):
		return errors.LicenseDenied(errors.CodeInvalidKey, result.Message, traceID)
	case strings.Contains(result.Message, "no subscription"):
		return errors.LicenseDenied(errors.CodeNotFound, result.Message, traceID)
	}
	return errors.ValidationFailed(traceID)
}
