package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 300, cfg.Preferences.DebounceMillis)
	assert.InDelta(t, 0.25, cfg.Matching.Weights.Size, 1e-9)
	assert.InDelta(t, 75000, cfg.Matching.Baselines.DWT, 1e-9)
	assert.NotEmpty(t, cfg.Matching.Regions)
	assert.NotEmpty(t, cfg.Matching.Families)
	assert.Equal(t, 900, cfg.Cache.Redis.TTLSecs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: memory
cache:
  backend: redis
  max_entries: 10
  redis:
    addr: redis:6379
log:
  level: debug
  format: console
matching:
  weights:
    size: 0.5
  regions:
    - name: Baltic
      keywords: [ust luga, primorsk]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 10, cfg.Cache.MaxEntries)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 0.5, cfg.Matching.Weights.Size, 1e-9)
	assert.InDelta(t, 0.20, cfg.Matching.Weights.Laycan, 1e-9)
	require.Len(t, cfg.Matching.Regions, 1)
	assert.Equal(t, "Baltic", cfg.Matching.Regions[0].Name)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("VESSELMATCH_SERVER_PORT", "9090")
	t.Setenv("VESSELMATCH_MATCHING_WEIGHTS_RATE", "0.4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.4, cfg.Matching.Weights.Rate, 1e-9)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"driver", map[string]string{"VESSELMATCH_STORE_DRIVER": "mongo"}, "unknown store driver"},
		{"postgres url", map[string]string{"VESSELMATCH_STORE_DRIVER": "postgres"}, "database_url"},
		{"backend", map[string]string{"VESSELMATCH_CACHE_BACKEND": "memcached"}, "unknown cache backend"},
		{"entries", map[string]string{"VESSELMATCH_CACHE_MAX_ENTRIES": "0"}, "max_entries"},
		{"assumed max age", map[string]string{"VESSELMATCH_MATCHING_ASSUMED_MAX_AGE": "0"}, "assumed_max_age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestInitLogger(t *testing.T) {
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "console"}))
	assert.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, zap.L().Core().Enabled(zapcore.WarnLevel))

	assert.Error(t, InitLogger(LogConfig{Level: "loud"}))
}
