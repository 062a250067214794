package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	cfgHome := t.TempDir()
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultBulkType, cfg.BulkType)
	assert.Equal(t, filepath.Join(dataHome, "gatherer"), cfg.WorkDir)

	_, err = os.Stat(filepath.Join(cfgHome, "gatherer", "config.toml"))
	require.NoError(t, err)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)

	path := filepath.Join(cfgHome, "gatherer", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`
work_dir = "/srv/mirror"
bulk_type = "default_cards"
request_interval = "250ms"
`), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/srv/mirror", cfg.WorkDir)
	assert.Equal(t, "default_cards", cfg.BulkType)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)

	d, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLoadConfig_Malformed(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)

	path := filepath.Join(cfgHome, "gatherer", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`work_dir = `), 0644))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Interval(t *testing.T) {
	t.Run("invalid duration", func(t *testing.T) {
		_, err := (&Config{RequestInterval: "soon"}).Interval()
		assert.Error(t, err)
	})

	t.Run("negative duration", func(t *testing.T) {
		_, err := (&Config{RequestInterval: "-1s"}).Interval()
		assert.Error(t, err)
	})

	t.Run("unset uses default", func(t *testing.T) {
		d, err := (&Config{}).Interval()
		require.NoError(t, err)
		assert.Equal(t, DefaultRequestInterval, d)
	})
}

func TestConfig_ResolveWorkDir_EnvOverride(t *testing.T) {
	t.Setenv(WorkDirEnv, "/from/env")

	cfg := &Config{WorkDir: "/from/file"}
	assert.Equal(t, "/from/env", cfg.ResolveWorkDir())
}

func TestGetCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", "gatherer"), GetCacheDir())
}

func TestPaths_Layout(t *testing.T) {
	p := NewPaths("/w")

	assert.Equal(t, filepath.Join("/w", "data"), p.DataDir)
	assert.Equal(t, filepath.Join("/w", "data", "bulk-data.json"), p.BulkFile)
	assert.Equal(t, filepath.Join("/w", "data", "cards.json"), p.ProcessedFile)
	assert.Equal(t, filepath.Join("/w", "data", "magic-the-gathering-cards"), p.AssetDir)
}

func TestPaths_EnsureDirs(t *testing.T) {
	p := NewPaths(filepath.Join(t.TempDir(), "mirror"))
	require.NoError(t, p.EnsureDirs())

	info, err := os.Stat(p.AssetDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Error(t, Paths{}.EnsureDirs())
}
