package config

import (
	"os"
	"strconv"
	"time"
)

// Backend names accepted by StoreConfig.Backend
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all configuration options for the todo application
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Application ApplicationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `env:"TODO_SERVER_HOST"`
	Port            int           `env:"TODO_SERVER_PORT"`
	ReadTimeout     time.Duration `env:"TODO_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"TODO_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"TODO_SERVER_SHUTDOWN_TIMEOUT"`
	IdleTimeout     time.Duration `env:"TODO_SERVER_IDLE_TIMEOUT"`
}

// StoreConfig holds document store configuration
type StoreConfig struct {
	Backend        string        `env:"TODO_STORE_BACKEND"`
	Path           string        `env:"TODO_STORE_PATH"`
	Create         bool          `env:"TODO_STORE_CREATE"`
	LockTimeout    time.Duration `env:"TODO_STORE_LOCK_TIMEOUT"`
	DirPermissions uint32        `env:"TODO_STORE_DIR_PERMISSIONS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TODO_APP_TIMEOUT"`
	Verbose bool          `env:"TODO_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			IdleTimeout:     60 * time.Second,
		},
		Store: StoreConfig{
			Backend:        BackendFile,
			Path:           "db.json",
			Create:         true,
			LockTimeout:    5 * time.Second,
			DirPermissions: 0755,
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
			Verbose: false,
		},
	}
}

// GetListenAddress returns the host:port the HTTP server binds to
func (c *Config) GetListenAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if host, ok := os.LookupEnv("TODO_SERVER_HOST"); ok {
		c.Server.Host = host
	}
	if port := os.Getenv("TODO_SERVER_PORT"); port != "" {
		c.Server.Port = ParseIntWithFallback(port, c.Server.Port)
	}
	if timeout := os.Getenv("TODO_SERVER_READ_TIMEOUT"); timeout != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(timeout, c.Server.ReadTimeout)
	}
	if timeout := os.Getenv("TODO_SERVER_WRITE_TIMEOUT"); timeout != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(timeout, c.Server.WriteTimeout)
	}
	if timeout := os.Getenv("TODO_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}
	if timeout := os.Getenv("TODO_SERVER_IDLE_TIMEOUT"); timeout != "" {
		c.Server.IdleTimeout = ParseDurationWithFallback(timeout, c.Server.IdleTimeout)
	}

	// Store configuration
	if backend := os.Getenv("TODO_STORE_BACKEND"); backend != "" {
		c.Store.Backend = backend
	}
	if path := os.Getenv("TODO_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
	if create := os.Getenv("TODO_STORE_CREATE"); create != "" {
		c.Store.Create = ParseBoolWithFallback(create, c.Store.Create)
	}
	if timeout := os.Getenv("TODO_STORE_LOCK_TIMEOUT"); timeout != "" {
		c.Store.LockTimeout = ParseDurationWithFallback(timeout, c.Store.LockTimeout)
	}
	if perms := os.Getenv("TODO_STORE_DIR_PERMISSIONS"); perms != "" {
		c.Store.DirPermissions = ParseUint32WithFallback(perms, 8, c.Store.DirPermissions)
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TODO_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 0 and 65535"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Server.IdleTimeout <= 0 {
		return &ConfigError{Field: "server.idle_timeout", Message: "idle timeout must be positive"}
	}

	// Validate store configuration
	if c.Store.Backend != BackendFile && c.Store.Backend != BackendSQLite {
		return &ConfigError{Field: "store.backend", Message: "backend must be \"file\" or \"sqlite\""}
	}
	if c.Store.Path == "" {
		return &ConfigError{Field: "store.path", Message: "store path cannot be empty"}
	}
	if c.Store.LockTimeout < 0 {
		return &ConfigError{Field: "store.lock_timeout", Message: "lock timeout cannot be negative"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
