package config

import (
	"context"
	"os"

	"todo-app/internal/store"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from TODO_ENV
func GetEnvironment() Environment {
	switch os.Getenv("TODO_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}

// StoreFactory creates store instances based on environment
type StoreFactory struct {
	env Environment
}

// NewStoreFactory creates a new store factory for the given environment
func NewStoreFactory(env Environment) *StoreFactory {
	return &StoreFactory{env: env}
}

// CreateStore creates a store for the current environment. The testing
// environment always gets a fresh in-memory database.
func (sf *StoreFactory) CreateStore(ctx context.Context, cfg *Config) (*store.Store, error) {
	if sf.env == Testing {
		return CreateTestStore(ctx, cfg)
	}
	return CreateStore(ctx, cfg)
}
