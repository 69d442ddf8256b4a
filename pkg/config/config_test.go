package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLATFORM_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 900, cfg.AccessTokenTTL)
	assert.Equal(t, "default-tenant", cfg.DefaultTenantID)
	assert.Equal(t, "default", cfg.Source("port"))
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLATFORM_CONFIG_PATH", dir)

	content := "port: 9090\nkb_root: /srv/kb\naccess_token_ttl: 600\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/srv/kb", cfg.KBRoot)
	assert.Equal(t, 600, cfg.AccessTokenTTL)
	assert.Equal(t, "file", cfg.Source("port"))
	assert.Equal(t, "default", cfg.Source("bind_address"))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLATFORM_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: 9090\n"), 0o644))

	t.Setenv("PLATFORM_PORT", "7070")
	t.Setenv("KB_ROOT", "/mnt/kb")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, "/mnt/kb", cfg.KBRoot)
	assert.Equal(t, "environment", cfg.Source("kb_root"))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLATFORM_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: [not an int\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	assert.NoError(t, cfg.Validate())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.RefreshTokenTTL = cfg.AccessTokenTTL
	assert.Error(t, cfg.Validate())
}

func TestFormatText(t *testing.T) {
	t.Setenv("PLATFORM_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	out := cfg.FormatText()
	assert.Contains(t, out, "kb_root")
	assert.Contains(t, out, "default")
}
