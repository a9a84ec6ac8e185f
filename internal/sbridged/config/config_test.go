package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "config.json", cfg.Overlay.ConfigPath)
	assert.Equal(t, 60, cfg.RateLimit.ConnectPerMinute)
}

func TestLoad_EnvOverlay(t *testing.T) {
	t.Setenv("SBRIDGE_SERVER_PORT", "8080")
	t.Setenv("SBRIDGE_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("SBRIDGE_OVERLAY_CONFIG_PATH", "/tmp/overlay.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/overlay.json", cfg.Overlay.ConfigPath)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sbridged.yaml")
	body := `
server:
  host: 127.0.0.1
  port: 9000
overlay:
  configPath: overlay.json
rateLimit:
  connectPerMinute: 10
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "overlay.json", cfg.Overlay.ConfigPath)
	assert.Equal(t, 10, cfg.RateLimit.ConnectPerMinute)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, cfg.RateLimit.ConfigPerMinute)
}

func TestLoadFile_InvalidPort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sbridged.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
