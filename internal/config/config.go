package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete configuration for the enforcement core and its dev
// harness. Values come from defaults, then an optional YAML file, then
// BRANDGATE_* environment variables, each layer overriding the previous.
type Config struct {
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Cache       CacheConfig       `yaml:"cache" envconfig:"CACHE"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Enforcement EnforcementConfig `yaml:"enforcement" envconfig:"ENFORCEMENT"`
}

// ServerConfig contains HTTP settings for the dev harness binary.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// CacheConfig configures the remote cache. An empty Address is a supported
// mode: the facade runs fallback-only, which is the normal setup for tests
// and small single-node deployments.
type CacheConfig struct {
	Address   string        `yaml:"address" envconfig:"ADDRESS"`
	Password  string        `yaml:"password" envconfig:"PASSWORD"`
	DB        int           `yaml:"db" envconfig:"DB"`
	KeyPrefix string        `yaml:"key_prefix" envconfig:"KEY_PREFIX"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"` // stdout|file|both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// EnforcementConfig holds enforcement tunables. GracePeriod is overridable
// mainly so integration tests can shrink the window.
type EnforcementConfig struct {
	GracePeriod time.Duration `yaml:"grace_period" envconfig:"GRACE_PERIOD"`
	QuotaTTL    time.Duration `yaml:"quota_ttl" envconfig:"QUOTA_TTL"`
	FeaturesTTL time.Duration `yaml:"features_ttl" envconfig:"FEATURES_TTL"`
}

// Default returns the baseline configuration before file and environment
// overrides are applied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Timeout: RemoteCacheTimeout,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/brandgate.log",
		},
		Enforcement: EnforcementConfig{
			GracePeriod: GracePeriod,
			QuotaTTL:    TTLShort,
			FeaturesTTL: TTLMedium,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (ignored when empty or absent), and BRANDGATE_* environment
// variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process("BRANDGATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Enforcement.GracePeriod < 0 {
		return fmt.Errorf("grace period must not be negative: %s", c.Enforcement.GracePeriod)
	}
	if c.Enforcement.QuotaTTL <= 0 {
		return fmt.Errorf("quota ttl must be positive: %s", c.Enforcement.QuotaTTL)
	}
	if c.Enforcement.FeaturesTTL <= 0 {
		return fmt.Errorf("features ttl must be positive: %s", c.Enforcement.FeaturesTTL)
	}
	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}
	return nil
}

// RemoteCacheConfigured reports whether a remote cache target was provided.
func (c *Config) RemoteCacheConfigured() bool {
	return c.Cache.Address != ""
}
