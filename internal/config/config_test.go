package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wgpeer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
log_format: console
config_dir: /tmp/wg
elevate: []
resolve_timeout: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "/tmp/wg", cfg.ConfigDir)
	assert.Empty(t, cfg.Elevate)
	assert.Equal(t, 2*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, Default().StateFile, cfg.StateFile)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "log_levle: debug\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing configuration")
}

func TestLoadInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "log_format: xml\nresolve_timeout: 0s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
	assert.Contains(t, err.Error(), "resolve_timeout")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WGPEER_LOG_LEVEL", "warn")
	t.Setenv("WGPEER_CONFIG_DIR", "/srv/wg")
	t.Setenv("WGPEER_STATE_FILE", "/srv/state.yaml")

	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/srv/wg", cfg.ConfigDir)
	assert.Equal(t, "/srv/state.yaml", cfg.StateFile)
}
