package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.GetListenAddress())
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "db.json", cfg.Store.Path)
	assert.True(t, cfg.Store.Create)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TODO_SERVER_HOST", "127.0.0.1")
	t.Setenv("TODO_SERVER_PORT", "8080")
	t.Setenv("TODO_SERVER_READ_TIMEOUT", "3s")
	t.Setenv("TODO_SERVER_SHUTDOWN_TIMEOUT", "1s")
	t.Setenv("TODO_SERVER_IDLE_TIMEOUT", "90s")
	t.Setenv("TODO_STORE_BACKEND", "sqlite")
	t.Setenv("TODO_STORE_PATH", "/tmp/todo.db")
	t.Setenv("TODO_STORE_CREATE", "false")
	t.Setenv("TODO_STORE_LOCK_TIMEOUT", "250ms")
	t.Setenv("TODO_STORE_DIR_PERMISSIONS", "700")
	t.Setenv("TODO_APP_TIMEOUT", "1m")
	t.Setenv("TODO_APP_VERBOSE", "true")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "127.0.0.1:8080", cfg.GetListenAddress())
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 90*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/todo.db", cfg.Store.Path)
	assert.False(t, cfg.Store.Create)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.LockTimeout)
	assert.Equal(t, uint32(0700), cfg.Store.DirPermissions)
	assert.Equal(t, time.Minute, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
}

func TestLoadFromEnvironment_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("TODO_SERVER_PORT", "not-a-port")
	t.Setenv("TODO_STORE_LOCK_TIMEOUT", "soon")
	t.Setenv("TODO_STORE_CREATE", "maybe")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	defaults := NewConfig()
	assert.Equal(t, defaults.Server.Port, cfg.Server.Port)
	assert.Equal(t, defaults.Store.LockTimeout, cfg.Store.LockTimeout)
	assert.Equal(t, defaults.Store.Create, cfg.Store.Create)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "server.read_timeout"},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, "server.write_timeout"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"zero idle timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, "server.idle_timeout"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"empty path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"negative lock timeout", func(c *Config) { c.Store.LockTimeout = -time.Second }, "store.lock_timeout"},
		{"zero app timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}
