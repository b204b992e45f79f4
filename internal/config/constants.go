package config

import "time"

// Application constants for the brandgate enforcement core.
const (
	AppName    = "brandgate"
	AppVersion = "1.4.0"

	// License key format: BG-XXXX-XXXX-XXXX-XXXX
	LicenseKeyPrefix  = "BG-"
	LicenseKeyLength  = 22
	LicenseKeyPattern = "^BG-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$"

	// GracePeriod is the window after expiry during which access remains
	// allowed but flagged. Boundaries are inclusive.
	GracePeriod = 7 * 24 * time.Hour

	// Cache TTL tiers. Quota checks use the short tier, plan features the
	// medium tier.
	TTLShort  = 60 * time.Second
	TTLMedium = 300 * time.Second
	TTLLong   = 3600 * time.Second
	TTLDay    = 86400 * time.Second

	// Cache key formats. Brand-scoped keys share the "brand:" prefix so a
	// single pattern delete invalidates a whole brand.
	CacheKeyBrandPrefix    = "brand:"
	CacheKeyTenantFeatures = "tenant:%s:features"
	CacheKeyBranchCount    = "tenant:%s:branches"
	CacheKeyTenantPrefix   = "tenant:%s:"

	// Middleware verdict cache. Negative verdicts are re-checked sooner so a
	// renewed tenant is not locked out for the full window.
	VerdictCacheTTL         = 60 * time.Second
	VerdictCacheNegativeTTL = 10 * time.Second

	// ValidationRateLimit caps license validation attempts per second at the
	// HTTP gate; bursts cover dashboard fan-out.
	ValidationRateLimit = 10
	ValidationRateBurst = 20

	// RemoteCacheTimeout bounds each remote cache call. A timed-out write is
	// treated as failed, never as landed.
	RemoteCacheTimeout = 500 * time.Millisecond
)
