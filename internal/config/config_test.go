package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "guru.log", cfg.LogFile)
	assert.Equal(t, PresenterTTY, cfg.Presenter)
	assert.Equal(t, uint(20), cfg.Cascade.Threshold)
	assert.Equal(t, 30*time.Second, cfg.Cascade.WindowDuration())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guru.yaml")
	cfg := DefaultConfig()
	cfg.LogFile = "elsewhere.log"
	cfg.Presenter = PresenterConsole
	cfg.Cascade.Threshold = 5
	cfg.Cascade.Window = "10s"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 10*time.Second, loaded.Cascade.WindowDuration())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guru.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_file: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestWindowDurationFallsBackOnGarbage(t *testing.T) {
	c := CascadeConfig{Window: "not a duration"}
	assert.Equal(t, time.Duration(0), c.WindowDuration())
	c.Window = ""
	assert.Equal(t, time.Duration(0), c.WindowDuration())
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guru.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.Presenter = PresenterConsole
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-reloaded:
		assert.Equal(t, PresenterConsole, got.Presenter)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reloaded")
	}
	assert.GreaterOrEqual(t, w.Stats().Reloads, 1)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guru.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("hi"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("watcher reloaded for an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guru.yaml")
	require.NoError(t, DefaultConfig().Save(path))
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
