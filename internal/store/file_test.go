package store

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_LoadMissing(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "db.json"), 0)

	_, err := backend.Load(context.Background())

	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
}

func TestFileBackend_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	backend := NewFileBackend(path, 0o700)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, []byte(`{"tasks":[]}`)))
	require.NoError(t, backend.Save(ctx, []byte(`{"tasks":[{"id":1}]}`)))

	data, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[{"id":1}]}`, string(data))
	assert.Equal(t, path, backend.Path())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should be left behind")
}

func TestFileBackend_CrashBeforeRenameKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	original := []byte(`{"tasks":[{"id":1,"title":"keep me"}]}`)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	backend := NewFileBackend(path, 0)
	backend.beforeRename = func(tmpPath string) error {
		data, err := os.ReadFile(tmpPath)
		require.NoError(t, err)
		assert.Equal(t, `{"tasks":[]}`, string(data), "temporary file should hold the full new document")
		return stderrors.New("killed")
	}

	err := backend.Save(context.Background(), []byte(`{"tasks":[]}`))
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be removed after a failed save")
}

func TestFileBackend_RenameFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory at the target path makes the rename fail.
	path := filepath.Join(dir, "db.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o755))

	backend := NewFileBackend(path, 0)
	err := backend.Save(context.Background(), []byte(`{"tasks":[]}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "replace file")
	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestFileBackend_CancelledContext(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "db.json"), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, backend.Save(ctx, []byte(`{}`)), context.Canceled)
	_, err := backend.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
