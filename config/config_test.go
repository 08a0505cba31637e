package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, 30*24*time.Hour, cfg.Secrets.Retention)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9999
  base_url: https://secrets.example.com
store:
  type: sqlite
  sqlite: /tmp/vanish-test.sqlite
secrets:
  default_ttl: 10m
  max_ttl: 48h
  retention: 72h
sweep:
  interval: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "https://secrets.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, 10*time.Minute, cfg.Secrets.DefaultTTL)
	assert.Equal(t, 72*time.Hour, cfg.Secrets.Retention)
	assert.Equal(t, 5*time.Second, cfg.Sweep.Interval)
	// Untouched keys keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600))

	t.Setenv("PORT", "9001")
	t.Setenv("STORE_TYPE", "memory")
	t.Setenv("RETENTION", "48h")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, 48*time.Hour, cfg.Secrets.Retention)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }},
		{"bad store type", func(c *Config) { c.Store.Type = "etcd" }},
		{"redis without addr", func(c *Config) { c.Store.Type = "redis"; c.Store.Redis.Addr = "" }},
		{"sqlite without path", func(c *Config) { c.Store.Type = "sqlite"; c.Store.SQLite = "" }},
		{"zero ttl", func(c *Config) { c.Secrets.DefaultTTL = 0 }},
		{"max ttl below default", func(c *Config) { c.Secrets.MaxTTL = time.Minute }},
		{"zero payload cap", func(c *Config) { c.Secrets.MaxPayloadBytes = 0 }},
		{"zero retention", func(c *Config) { c.Secrets.Retention = 0 }},
		{"zero sweep interval", func(c *Config) { c.Sweep.Interval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
