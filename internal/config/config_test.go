package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REVEAL_ADDR", "")
	t.Setenv("REVEAL_DSN", "")
	t.Setenv("REVEAL_ENV", "")
	t.Setenv("REVEAL_SESSION_KEY", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "reveal.db", cfg.Database.DSN)
	require.Equal(t, "reveal-session", cfg.Session.Name)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REVEAL_ADDR", "127.0.0.1:9000")
	t.Setenv("REVEAL_DSN", "file:test.db")
	t.Setenv("REVEAL_SESSION_KEY", strings.Repeat("k", 32))
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, "file:test.db", cfg.Database.DSN)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsShortSessionKey(t *testing.T) {
	t.Setenv("REVEAL_SESSION_KEY", "short")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Server:   ServerConfig{Addr: ":8080", Env: "development"},
		Database: DatabaseConfig{DSN: "reveal.db"},
		Session:  SessionConfig{Name: "s"},
		Logging:  LoggingConfig{Level: "chatty"},
	}
	require.Error(t, Validate(cfg))

	cfg.Logging.Level = "warn"
	require.NoError(t, Validate(cfg))
}
