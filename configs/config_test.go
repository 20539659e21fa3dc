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
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "models/churn_pipeline.json", cfg.Model.ArtifactPath)
	assert.Equal(t, "three-tier", cfg.Model.TierPolicy)
	assert.Equal(t, 3, cfg.Fallback.InactiveAbove)
	assert.InDelta(t, 0.98, cfg.Fallback.Cap, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
server:
  port: "9000"
  read_timeout: 5s
model:
  tier_policy: binary
fallback:
  inactive_above: 2
`), 0o600))

	t.Setenv("PORT", "")
	t.Setenv("PORTFOLIO_LOG_LEVEL", "debug")
	t.Setenv("PORTFOLIO_SERVER__API_KEY", "test-key")
	t.Setenv("PORTFOLIO_MODEL__COLLECTED_FIELDS", "age,dependents")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "binary", cfg.Model.TierPolicy)
	assert.Equal(t, 2, cfg.FallbackPolicy().InactiveAbove)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "test-key", cfg.Server.APIKey)
	assert.Equal(t, []string{"age", "dependents"}, cfg.Model.CollectedFields)
}

func TestLoadPortPrecedence(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	t.Setenv("PORT", "3000")
	cfg, err := Load(missing)
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)

	t.Setenv("PORTFOLIO_SERVER__PORT", "4000")
	cfg, err = Load(missing)
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Server.Port)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv("PORT", "")

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown tier policy", "PORTFOLIO_MODEL__TIER_POLICY", "five-tier"},
		{"cap above ceiling", "PORTFOLIO_FALLBACK__CAP", "0.99"},
		{"cap below floor", "PORTFOLIO_FALLBACK__CAP", "0.5"},
		{"negative weight", "PORTFOLIO_FALLBACK__CONTACTS_WEIGHT", "-0.1"},
		{"bad timezone", "PORTFOLIO_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(missing)
			assert.Error(t, err)
		})
	}
}

func TestLoadListsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PORTFOLIO_MODEL__COLLECTED_FIELDS", " age, education_level ,")
	t.Setenv("PORTFOLIO_SERVER__CORS_ORIGINS", "https://ibnu.dev,https://www.ibnu.dev")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "education_level"}, cfg.Model.CollectedFields)
	assert.Equal(t, []string{"https://ibnu.dev", "https://www.ibnu.dev"}, cfg.Server.CORSOrigins)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
