package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Env.Log.Level)
	assert.Equal(t, 60*time.Second, cfg.Insight.Timeout)
	assert.False(t, cfg.Fasting.Strict)
	assert.Empty(t, cfg.Identity.User)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
env:
  log:
    level: debug
    pretty: true
identity:
  user: alice
fasting:
  strict: true
insight:
  baseUrl: http://localhost:8080/v1
  model: local-model
  timeout: 5s
backup:
  bucketUrl: mem://
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Env.Log.Level)
	assert.True(t, cfg.Env.Log.Pretty)
	assert.Equal(t, "alice", cfg.Identity.User)
	assert.True(t, cfg.Fasting.Strict)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Insight.BaseURL)
	assert.Equal(t, "local-model", cfg.Insight.Model)
	assert.Equal(t, 5*time.Second, cfg.Insight.Timeout)
	assert.Equal(t, "mem://", cfg.Backup.BucketURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
identity:
  user: alice
insight:
  apiKey: from-file
`)
	t.Setenv("OPTILIFE_IDENTITY_USER", "bob")
	t.Setenv("OPTILIFE_INSIGHT_APIKEY", "from-env")
	t.Setenv("OPTILIFE_FASTING_STRICT", "true")
	t.Setenv("OPTILIFE_INSIGHT_TIMEOUT", "90s")

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.Identity.User)
	assert.Equal(t, "from-env", cfg.Insight.APIKey)
	assert.True(t, cfg.Fasting.Strict)
	assert.Equal(t, 90*time.Second, cfg.Insight.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "env: [unclosed")
	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"insight": map[string]any{"apiKey": "", "baseUrl": ""},
		"backup":  map[string]any{"bucketUrl": ""},
	}
	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "INSIGHT_APIKEY", want: "insight.apiKey"},
		{envKey: "INSIGHT_BASEURL", want: "insight.baseUrl"},
		{envKey: "BACKUP_BUCKETURL", want: "backup.bucketUrl"},
		{envKey: "ENV_LOG_LEVEL", want: "env.log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
