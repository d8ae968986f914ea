package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLayeredSources(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_port":"7000","genai_model":"json-model"}`)
	yamlPath := writeFile(t, dir, "app.yaml", "app:\n  genai_model: yaml-model\n  feed_latency: 250ms\nfeature_flags:\n  HATOo: false\n")
	envPath := writeFile(t, dir, ".env", "GENAI_API_KEY=secret\nSEARCH_LATENCY=40\n")

	require.NoError(t, config.Reload(jsonPath, yamlPath, envPath))

	assert.Equal(t, "7000", config.AppPort())
	assert.Equal(t, "yaml-model", config.GenAIModel())
	assert.Equal(t, "secret", config.GenAIKey())
	assert.Equal(t, 250*time.Millisecond, config.FeedLatency())
	assert.Equal(t, 40*time.Millisecond, config.SearchLatency())
	assert.Equal(t, map[string]bool{"HATOo": false}, config.FeatureFlags())
}

func TestMissingFilesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Reload(
		filepath.Join(dir, "none.json"),
		filepath.Join(dir, "none.yaml"),
		filepath.Join(dir, "none.env"),
	))

	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "souqhup.db", config.DatabaseDSN())
	assert.Equal(t, "memory", config.CacheDriver())
	assert.Equal(t, "gemini-3-flash-preview", config.GenAIModel())
	assert.Equal(t, "v1beta", config.GenAIAPIVersion())
	assert.Equal(t, 600*time.Millisecond, config.FeedLatency())
	assert.Equal(t, 1500*time.Millisecond, config.SearchLatency())
	assert.Empty(t, config.FeatureFlags())
}

func TestProcessEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "CACHE_DRIVER=redis\n")
	t.Setenv("CACHE_DRIVER", "database")

	require.NoError(t, config.Reload(filepath.Join(dir, "x.json"), filepath.Join(dir, "x.yaml"), envPath))
	assert.Equal(t, "database", config.CacheDriver())
}

func TestMailAndCORSFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MAIL_HOST", "smtp.souqhup.test")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")

	require.NoError(t, config.Reload(filepath.Join(dir, "x.json"), filepath.Join(dir, "x.yaml"), filepath.Join(dir, "x.env")))
	assert.Equal(t, "smtp.souqhup.test", config.MailHost())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, config.CORSOrigins())
}

func TestUnknownDriverFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Reload(filepath.Join(dir, "x.json"), filepath.Join(dir, "x.yaml"), filepath.Join(dir, "x.env")))

	config.Set("DB_DRIVER", "oracle")
	config.Set("CACHE_DRIVER", "etcd")
	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "memory", config.CacheDriver())
}
