package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does/not/exist.toml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "vista", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, 5, cfg.Client.TimeoutSecond)
	assert.Zero(t, cfg.Auth.TokenTTLMinute)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does/not/exist.toml")
	t.Setenv("APP_PORT", "9999")
	t.Setenv("MYSQL_DB", "vista_test")
	t.Setenv("VISTA_SERVER_URL", "http://example.com:8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.App.Port)
	assert.Equal(t, "vista_test", cfg.MySQL.DB)
	assert.Equal(t, "http://example.com:8080", cfg.Client.BaseURL)
	assert.Contains(t, cfg.MySQLDSN(), "/vista_test?")
}

func TestEnvOverrideIgnoresBadInt(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does/not/exist.toml")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}
