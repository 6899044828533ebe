package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compliance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "compliance.db", cfg.DBPath)
	assert.Equal(t, "compliance.db", cfg.ActivityDBPath)
	assert.Equal(t, 7, cfg.DueSoonWindowDays())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, "port: 9090\ndb_path: /tmp/c.db\ndue_soon_window_days: 14\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/c.db", cfg.DBPath)
	assert.Equal(t, 14, cfg.DueSoonWindowDays())
	assert.Equal(t, 14, cfg.ClassifierConfig().DueSoonWindowDays)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9090\ndue_soon_window_days: 14\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DUE_SOON_WINDOW_DAYS", "3")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 3, cfg.DueSoonWindowDays())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "port: [not a port\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestReloadUpdatesWindowOnly(t *testing.T) {
	path := writeConfig(t, "port: 9090\ndue_soon_window_days: 7\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("port: 1111\ndue_soon_window_days: 21\n"), 0o644))
	require.NoError(t, cfg.Reload())

	assert.Equal(t, 21, cfg.DueSoonWindowDays())
	assert.Equal(t, 9090, cfg.Port, "port is fixed at startup")
}

func TestReloadIgnoresNonPositiveWindow(t *testing.T) {
	path := writeConfig(t, "due_soon_window_days: 10\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("due_soon_window_days: -1\n"), 0o644))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, 10, cfg.DueSoonWindowDays())
}
