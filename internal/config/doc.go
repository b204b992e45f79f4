// Package config provides layered configuration for the brandgate
// enforcement core: compiled defaults, an optional YAML file, and
// BRANDGATE_* environment variables, in increasing precedence.
//
// The package also carries the tuning constants shared across the core
// (grace period, cache TTL tiers, key formats). Components take the values
// they need through their constructors; nothing reads configuration at
// call time.
package config
