package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"brandgate/internal/cache"
	"brandgate/internal/clock"
	"brandgate/internal/config"
	"brandgate/internal/license"
	"brandgate/internal/store"
)

// Enforcement answers license validity and branch quota questions. Results
// carry the verdict and a human-readable message; internal failures are
// already folded into a denial by the time a result is returned.
type Enforcement interface {
	ValidateLicense(ctx context.Context, key string) *ValidationResult
	ValidateTenantSubscription(ctx context.Context, tenantID string) *ValidationResult
	CanCreateBranch(ctx context.Context, tenantID string) *QuotaResult
}

// ValidationResult is the outcome of a license validation.
type ValidationResult struct {
	Valid        bool                  `json:"valid"`
	State        license.State         `json:"state,omitempty"`
	Message      string                `json:"message"`
	Subscription *license.Subscription `json:"subscription,omitempty"`
}

// QuotaResult is the outcome of a branch quota check.
type QuotaResult struct {
	Allowed      bool   `json:"allowed"`
	CurrentCount int    `json:"current_count"`
	MaxAllowed   int    `json:"max_allowed"`
	Message      string `json:"message"`
}

// failClosedMessage is the only message surfaced for internal failures; it
// deliberately carries no detail.
const failClosedMessage = "error validating license"

// EnforcementService implements Enforcement against the data-store
// collaborator, with quota inputs memoized through the cache facade.
type EnforcementService struct {
	store       store.Store
	cache       *cache.Facade
	clock       clock.Clock
	logger      *slog.Logger
	notifier    Notifier
	grace       time.Duration
	quotaTTL    time.Duration
	featuresTTL time.Duration
}

// NewEnforcementService creates the enforcement service. All collaborators
// are injected; the service owns no lifecycle.
func NewEnforcementService(st store.Store, facade *cache.Facade, clk clock.Clock, logger *slog.Logger, cfg config.EnforcementConfig) *EnforcementService {
	if logger == nil {
		logger = slog.Default()
	}
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = config.GracePeriod
	}
	quotaTTL := cfg.QuotaTTL
	if quotaTTL <= 0 {
		quotaTTL = config.TTLShort
	}
	featuresTTL := cfg.FeaturesTTL
	if featuresTTL <= 0 {
		featuresTTL = config.TTLMedium
	}
	return &EnforcementService{
		store:       st,
		cache:       facade,
		clock:       clk,
		logger:      logger.With(slog.String("service", "enforcement")),
		notifier:    NopNotifier{},
		grace:       grace,
		quotaTTL:    quotaTTL,
		featuresTTL: featuresTTL,
	}
}

// SetNotifier replaces the lifecycle event notifier.
func (s *EnforcementService) SetNotifier(n Notifier) {
	if n != nil {
		s.notifier = n
	}
}

// ValidateLicense loads the subscription for key, evaluates it against the
// clock, and persists any status transition the evaluator signalled. The
// subscription read is deliberately uncached so the verdict reflects the
// latest administrative status.
func (s *EnforcementService) ValidateLicense(ctx context.Context, key string) *ValidationResult {
	key = license.NormalizeKey(key)
	if !license.ValidateKeyFormat(key) {
		s.logger.DebugContext(ctx, "rejected malformed license key",
			slog.String("license_key", license.MaskKey(key)))
		return &ValidationResult{
			Valid:   false,
			Message: "invalid license key format",
		}
	}

	sub, err := s.store.SubscriptionByLicenseKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.InfoContext(ctx, "license key has no subscription",
				slog.String("license_key", license.MaskKey(key)))
			return &ValidationResult{
				Valid:   false,
				Message: "no subscription found for this license key",
			}
		}
		s.logger.ErrorContext(ctx, "subscription lookup failed, denying access",
			slog.String("license_key", license.MaskKey(key)),
			slog.String("error", err.Error()))
		return &ValidationResult{Valid: false, Message: failClosedMessage}
	}

	return s.evaluateAndPersist(ctx, sub)
}

// ValidateTenantSubscription resolves the tenant's current subscription and
// runs the same evaluate/persist path as ValidateLicense.
func (s *EnforcementService) ValidateTenantSubscription(ctx context.Context, tenantID string) *ValidationResult {
	sub, err := s.store.SubscriptionByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.InfoContext(ctx, "tenant has no subscription",
				slog.String("tenant_id", tenantID))
			return &ValidationResult{
				Valid:   false,
				Message: "no subscription found for this tenant",
			}
		}
		s.logger.ErrorContext(ctx, "tenant subscription lookup failed, denying access",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return &ValidationResult{Valid: false, Message: failClosedMessage}
	}

	return s.evaluateAndPersist(ctx, sub)
}

// CanCreateBranch reports whether the tenant may create another branch. The
// subscription check is uncached; plan features and the branch count come
// through the cache facade with short TTLs, so a slightly stale count (and
// with it a one-branch soft overshoot) is possible and acceptable.
func (s *EnforcementService) CanCreateBranch(ctx context.Context, tenantID string) *QuotaResult {
	validation := s.ValidateTenantSubscription(ctx, tenantID)
	if !validation.Valid {
		return &QuotaResult{Allowed: false, Message: validation.Message}
	}
	sub := validation.Subscription

	features, err := cache.ReadThrough(ctx, s.cache,
		fmt.Sprintf(config.CacheKeyTenantFeatures, tenantID), s.featuresTTL,
		func(ctx context.Context) (*license.PlanFeatures, error) {
			return s.store.PlanFeatures(ctx, sub.ID)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "plan feature lookup failed, denying branch creation",
			slog.String("tenant_id", tenantID),
			slog.String("subscription_id", sub.ID.String()),
			slog.String("error", err.Error()))
		return &QuotaResult{Allowed: false, Message: "unable to verify branch allowance"}
	}

	count, err := cache.ReadThrough(ctx, s.cache,
		fmt.Sprintf(config.CacheKeyBranchCount, tenantID), s.quotaTTL,
		func(ctx context.Context) (int, error) {
			return s.store.CountBranches(ctx, tenantID)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "branch count lookup failed, denying branch creation",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		return &QuotaResult{Allowed: false, Message: "unable to verify branch allowance"}
	}

	result := &QuotaResult{
		CurrentCount: count,
		MaxAllowed:   features.MaxBranches,
	}
	if features.Unlimited() {
		result.Allowed = true
		result.Message = fmt.Sprintf("%d branches in use, plan is uncapped", count)
		return result
	}
	if count >= features.MaxBranches {
		result.Allowed = false
		result.Message = fmt.Sprintf("branch limit reached (%d of %d); upgrade the plan to add more", count, features.MaxBranches)
		return result
	}
	result.Allowed = true
	result.Message = fmt.Sprintf("%d of %d branches in use", count, features.MaxBranches)
	return result
}

// evaluateAndPersist runs the evaluator and writes back any status
// transition it signalled. The write is a full replacement and idempotent,
// so concurrent validations of the same key need no serialization.
func (s *EnforcementService) evaluateAndPersist(ctx context.Context, sub *license.Subscription) *ValidationResult {
	now := s.clock.Now()
	ev := license.EvaluateWithGrace(sub.Status, sub.EndDate, now, s.grace)

	if ev.PersistAs != sub.Status {
		previous := sub.Status
		if err := s.store.UpdateSubscriptionStatus(ctx, sub.ID, ev.PersistAs); err != nil {
			// The verdict stands either way: it was computed from the
			// freshest data we have. A failed write only delays the
			// persisted status catching up on the next validation.
			s.logger.ErrorContext(ctx, "failed to persist status transition",
				slog.String("subscription_id", sub.ID.String()),
				slog.String("from", string(previous)),
				slog.String("to", string(ev.PersistAs)),
				slog.String("error", err.Error()))
		} else {
			sub.Status = ev.PersistAs
			s.logger.InfoContext(ctx, "subscription status transitioned",
				slog.String("subscription_id", sub.ID.String()),
				slog.String("tenant_id", sub.TenantID),
				slog.String("from", string(previous)),
				slog.String("to", string(ev.PersistAs)))
			if ev.PersistAs == license.StatusSuspended {
				s.notifier.SubscriptionSuspended(ctx, sub)
				s.invalidateTenantCache(ctx, sub.TenantID)
			}
		}
	}

	s.logger.DebugContext(ctx, "license evaluated",
		slog.String("subscription_id", sub.ID.String()),
		slog.String("license_key", license.MaskKey(sub.LicenseKey)),
		slog.String("state", string(ev.State)),
		slog.Bool("allowed", ev.Allowed))

	return &ValidationResult{
		Valid:        ev.Allowed,
		State:        ev.State,
		Message:      ev.Message,
		Subscription: sub,
	}
}

// invalidateTenantCache drops the tenant's memoized quota inputs after a
// suspension so the next check sees the new reality immediately.
func (s *EnforcementService) invalidateTenantCache(ctx context.Context, tenantID string) {
	pattern := fmt.Sprintf(config.CacheKeyTenantPrefix, tenantID) + "*"
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate tenant cache",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
	}
}
