package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	require.EqualValues(t, 5000, cfg.HTTP.Port)
	require.Equal(t, "teamchat", cfg.Mongo.Database)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 64, cfg.Hub.SendBuffer)
	require.Equal(t, "zap", cfg.Logger.Logger)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
http:
  port: 9000
mongo:
  database: teamchat_test
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.EqualValues(t, 9000, cfg.HTTP.Port)
	require.Equal(t, "teamchat_test", cfg.Mongo.Database)
	// untouched keys keep their defaults
	require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	require.EqualValues(t, 7000, cfg.HTTP.Port)
	require.Equal(t, "test-secret", cfg.Auth.JWTSecret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}
