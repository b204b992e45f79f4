package license

import (
	"regexp"
	"strings"

	"brandgate/internal/config"
)

var keyPattern = regexp.MustCompile(config.LicenseKeyPattern)

// ValidateKeyFormat checks that key matches the BG-XXXX-XXXX-XXXX-XXXX
// format. Malformed keys are rejected here, before any data-store lookup.
func ValidateKeyFormat(key string) bool {
	if len(key) != config.LicenseKeyLength {
		return false
	}
	return keyPattern.MatchString(key)
}

// NormalizeKey trims surrounding whitespace and upper-cases a key as entered
// by a user. It does not validate.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// MaskKey masks a license key for safe logging. Only the prefix group
// survives.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}
