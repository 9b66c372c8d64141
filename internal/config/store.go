package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"todo-app/internal/logging"
	"todo-app/internal/store"
	"todo-app/internal/store/sqlite"
)

// CreateStore creates a document store using the configuration system
func CreateStore(ctx context.Context, config *Config) (*store.Store, error) {
	if config.Store.Backend == BackendSQLite {
		b, err := sqlite.New(ctx, config.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		s, err := newStore(ctx, b, config)
		if err != nil {
			return nil, err
		}
		logRevision(ctx, b, config.Store.Path)
		return s, nil
	}

	backend := store.NewFileBackend(config.Store.Path, os.FileMode(config.Store.DirPermissions))
	return newStore(ctx, backend, config)
}

func logRevision(ctx context.Context, b *sqlite.Backend, path string) {
	revision, updatedAt, err := b.Revision(ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logging.Debugf("sqlite store %s: no document yet", path)
	case err != nil:
		logging.Errorf("sqlite store %s: %v", path, err)
	default:
		logging.Debugf("sqlite store %s: document at revision %d, last written %s",
			path, revision, updatedAt.Format(time.RFC3339))
	}
}

// CreateTestStore creates an in-memory store for testing
func CreateTestStore(ctx context.Context, config *Config) (*store.Store, error) {
	b, err := sqlite.New(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test store: %w", err)
	}
	return newStore(ctx, b, config)
}

func newStore(ctx context.Context, backend store.Backend, config *Config) (*store.Store, error) {
	s := store.New(backend, store.WithLockTimeout(config.Store.LockTimeout))

	if config.Store.Create {
		if _, err := s.Ensure(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}
