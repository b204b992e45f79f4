package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, GracePeriod, cfg.Enforcement.GracePeriod)
	assert.Equal(t, TTLShort, cfg.Enforcement.QuotaTTL)
	assert.Equal(t, TTLMedium, cfg.Enforcement.FeaturesTTL)
	assert.False(t, cfg.RemoteCacheConfigured(), "no cache address by default")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brandgate.yml")
	content := `
server:
  port: 9090
cache:
  address: "localhost:6379"
  key_prefix: "bg:"
enforcement:
  grace_period: 72h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Cache.Address)
	assert.Equal(t, "bg:", cfg.Cache.KeyPrefix)
	assert.Equal(t, 72*time.Hour, cfg.Enforcement.GracePeriod)
	assert.True(t, cfg.RemoteCacheConfigured())

	// Unset fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brandgate.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	t.Setenv("BRANDGATE_SERVER_PORT", "7070")
	t.Setenv("BRANDGATE_CACHE_ADDRESS", "redis.internal:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.Address)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative grace period",
			mutate:  func(c *Config) { c.Enforcement.GracePeriod = -time.Hour },
			wantErr: "grace period",
		},
		{
			name:    "zero quota ttl",
			mutate:  func(c *Config) { c.Enforcement.QuotaTTL = 0 },
			wantErr: "quota ttl",
		},
		{
			name:    "bad logging output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: "invalid logging output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
