package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcjpm/kcjpm/internal/settings"
)

func TestLoadFallsBackToDefaultsWithoutFileOrEnv(t *testing.T) {
	s, err := settings.Load("", "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/.kcjpm/cache", s.CacheRoot)
	assert.Equal(t, "https://registry.kcjpm.dev", s.DefaultRegistry)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadReadsValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kcjpm-settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
cache_root = "/srv/kcjpm-cache"
default_registry = "https://mirror.example.com"
jobs = 4
`), 0o644))

	s, err := settings.Load(path, "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, "/srv/kcjpm-cache", s.CacheRoot)
	assert.Equal(t, "https://mirror.example.com", s.DefaultRegistry)
	assert.Equal(t, 4, s.Jobs)
}

func TestLoadPrefersEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kcjpm-settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`cache_root = "/srv/kcjpm-cache"`), 0o644))

	t.Setenv("KCJPM_CACHE_ROOT", "/override/cache")

	s, err := settings.Load(path, "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, "/override/cache", s.CacheRoot)
}

func TestLoadToleratesMissingFile(t *testing.T) {
	s, err := settings.Load("/nonexistent/kcjpm-settings.toml", "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/.kcjpm/cache", s.CacheRoot)
}
