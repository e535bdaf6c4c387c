package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/30tools/ai-agents-directory/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AGENTDIR_CONFIG", "")
	t.Setenv("AGENTDIR_DATA_DIR", "/tmp/agentdir")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://ai-agents.30tools.com", cfg.BaseURL)
	assert.Equal(t, config.BackendMemory, cfg.Favorites.Backend)
	assert.Equal(t, "/tmp/agentdir/favorites.json", cfg.FavoritesPath())
	assert.Equal(t, 2*time.Second, cfg.IndexNow.Debounce.Std())
	assert.Equal(t, "b786ce2423fa4a1182fa2c99ae947657", cfg.IndexNow.Key)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdir.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 9090
base_url = "https://example.com/"

[favorites]
backend = "bolt"
path = "/var/lib/agentdir/fav.db"

[indexnow]
enabled = false
timeout = "5s"

[cors]
allowed_origins = ["https://a.example"]
`), 0o644))

	t.Setenv("AGENTDIR_CONFIG", path)
	t.Setenv("AGENTDIR_PORT", "7070")
	t.Setenv("AGENTDIR_INDEXNOW_DEBOUNCE", "250ms")
	t.Setenv("AGENTDIR_CORS_ORIGINS", "https://b.example, https://c.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port, "env overrides file")
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, config.BackendBolt, cfg.Favorites.Backend)
	assert.Equal(t, "/var/lib/agentdir/fav.db", cfg.FavoritesPath())
	assert.False(t, cfg.IndexNow.Enabled)
	assert.Equal(t, 5*time.Second, cfg.IndexNow.Timeout.Std())
	assert.Equal(t, 250*time.Millisecond, cfg.IndexNow.Debounce.Std())
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("AGENTDIR_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := config.Load()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("port = ["), 0o644))
	t.Setenv("AGENTDIR_CONFIG", bad)
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("AGENTDIR_CONFIG", "")
	t.Setenv("AGENTDIR_FAVORITES_BACKEND", "redis")
	_, err = config.Load()
	assert.ErrorContains(t, err, "favorites backend")
}

func TestFavoritesPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataDir = "/data"

	cfg.Favorites.Backend = config.BackendBolt
	assert.Equal(t, "/data/favorites.db", cfg.FavoritesPath())

	cfg.Favorites.Path = "none"
	assert.Equal(t, "", cfg.FavoritesPath())
}

func TestLoad_Telemetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdir.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[telemetry]
enabled = true
insecure = false
environment = "production"
sample_ratio = 0.5
`), 0o644))
	t.Setenv("AGENTDIR_CONFIG", path)
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.1")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.False(t, cfg.Telemetry.Insecure)
	assert.Equal(t, "production", cfg.Telemetry.Environment)
	assert.Equal(t, 0.1, cfg.Telemetry.SampleRatio)
	assert.Equal(t, "ai-agents-directory", cfg.Telemetry.ServiceName)

	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
	_, err = config.Load()
	assert.ErrorContains(t, err, "sample ratio")
}
