package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://127.0.0.1:8000/api/v1", cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout.Duration)
	assert.Equal(t, 800.0, cfg.Layout.Width)
	assert.Equal(t, 500.0, cfg.Layout.Height)
	assert.Equal(t, -100.0, cfg.Layout.Charge)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.NoError(t, cfg.Validate(), "default config should validate")
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	assert.Equal(t, "/tmp/test-xdg/pathviz", ConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "pathviz"), ConfigDir())
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := Default()
	cfg.Batch.Concurrency = 8
	cfg.Server.Timeout = Duration{5 * time.Second}
	cfg.Layout.TickInterval = Duration{40 * time.Millisecond}

	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Batch.Concurrency)
	assert.Equal(t, 5*time.Second, loaded.Server.Timeout.Duration)
	assert.Equal(t, 40*time.Millisecond, loaded.Layout.TickInterval.Duration)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 70.0, cfg.Layout.LinkDistance)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Chdir(t.TempDir())

	path := filepath.Join(tmpDir, "pathviz", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[server]\ntimeout = \"soon\"\n"), 0o644))

	_, err := Load()
	assert.Error(t, err, "expected error for bad duration")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv(EnvServer, "http://optimizer:9000/api/v1")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://optimizer:9000/api/v1", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestProjectConfigOverlay(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFile), []byte("[layout]\nseed = 42\n"), 0o644))
	t.Chdir(sub)

	expected, _ := filepath.EvalSymlinks(filepath.Join(root, ProjectFile))
	resolved, _ := filepath.EvalSymlinks(findProjectConfig())
	assert.Equal(t, expected, resolved)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Layout.Seed)
	assert.Equal(t, -100.0, cfg.Layout.Charge, "unset keys should keep defaults")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ncolor = false\n[log]\nformat = \"json\"\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.UI.Color)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "expected error for missing explicit config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "127.0.0.1:8000"
	cfg.Layout.VelocityDecay = 1.5
	cfg.Batch.Concurrency = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.url", "velocity_decay", "batch.concurrency", "log.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLayoutParams(t *testing.T) {
	cfg := Default()
	cfg.Layout.Charge = -250
	cfg.Layout.Seed = 7

	p := cfg.Layout.Params()
	assert.Equal(t, -250.0, p.Charge)
	assert.Equal(t, int64(7), p.Seed)
	assert.Equal(t, 0.3, p.DragAlphaTarget, "drag alpha target should keep its default")
}

func TestEnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	require.NoError(t, EnsureExists())
	_, err := os.Stat(filepath.Join(tmpDir, "pathviz", "config.toml"))
	assert.NoError(t, err, "config file not created")
	require.NoError(t, EnsureExists(), "second call")
}
