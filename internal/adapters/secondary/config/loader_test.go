package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOMLLoader(t *testing.T) {
	t.Run("missing local config is not an error", func(t *testing.T) {
		loader := NewTOMLLoader()

		cfg, err := loader.LoadLocal(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("loads valid local config", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[server]
host = "127.0.0.1"
port = 8123

[browser]
auto_open = false

[logging]
level = "debug"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ariel.toml"), []byte(content), 0o644))

		loader := NewTOMLLoader()
		cfg, err := loader.LoadLocal(context.Background(), dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 8123, cfg.Server.Port)
		assert.False(t, cfg.Browser.AutoOpen)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ariel.toml"), []byte("[server\nport="), 0o644))

		loader := NewTOMLLoader()
		_, err := loader.LoadLocal(context.Background(), dir)
		assert.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[server]
port = 99999
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ariel.toml"), []byte(content), 0o644))

		loader := NewTOMLLoader()
		_, err := loader.LoadLocal(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("sane defaults", func(t *testing.T) {
		cfg := GetDefaultConfig()

		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 5000, cfg.Server.Port)
		assert.True(t, cfg.Browser.AutoOpen)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ARIEL_PORT", "9999")
		t.Setenv("ARIEL_AUTO_OPEN", "false")
		t.Setenv("ARIEL_CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")

		cfg := GetDefaultConfig()

		assert.Equal(t, 9999, cfg.Server.Port)
		assert.False(t, cfg.Browser.AutoOpen)
		assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.CORSOrigins)
	})

	t.Run("unparseable environment values fall back", func(t *testing.T) {
		t.Setenv("ARIEL_PORT", "not-a-number")

		cfg := GetDefaultConfig()
		assert.Equal(t, 5000, cfg.Server.Port)
	})
}
