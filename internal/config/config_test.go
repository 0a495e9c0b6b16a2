package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
env: development
port: 8080
dsn: user:pass@tcp(localhost:3306)/portal
redis_url: redis://localhost:6379/0
allowed_origins:
  - https://portal.example.org
cache_ttl_seconds: 30
reconcile_schedule: "30 3 * * *"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"https://portal.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.CacheTTLSeconds)
	assert.Equal(t, "30 3 * * *", cfg.ReconcileSchedule)
	assert.True(t, cfg.IsDev())
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "dsn: user:pass@tcp(db:3306)/portal\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 15, cfg.CacheTTLSeconds)
	assert.Equal(t, "0 4 * * *", cfg.ReconcileSchedule)
	assert.False(t, cfg.IsDev())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "dsn: from-file\nport: 3000\n")

	t.Setenv("PORTAL_DSN", "from-env")
	t.Setenv("PORTAL_PORT", "9090")
	t.Setenv("PORTAL_ENV", "dev")
	t.Setenv("PORTAL_RECONCILE_SCHEDULE", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DSN)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsDev())
}

func TestMissingFileNeedsEnvDSN(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")

	t.Setenv("PORTAL_DSN", "user:pass@tcp(db:3306)/portal")
	cfg, err := Load(missing)
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(db:3306)/portal", cfg.DSN)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "port: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}
