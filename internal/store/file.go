package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps the document in a single file on disk. Save writes a
// temporary file next to the target and renames it over the target, so a
// reader sees either the previous document or the new one.
type FileBackend struct {
	path     string
	filePerm os.FileMode
	dirPerm  os.FileMode

	// beforeRename runs after the temporary file is complete and before it
	// replaces the target. Tests use it to simulate a crash at that point.
	beforeRename func(tmpPath string) error
}

// NewFileBackend creates a backend for the document at path.
func NewFileBackend(path string, dirPerm os.FileMode) *FileBackend {
	if dirPerm == 0 {
		dirPerm = 0o755
	}
	return &FileBackend{path: path, filePerm: 0o644, dirPerm: dirPerm}
}

// Path returns the location of the backing file
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the whole file.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(b.path)
}

// Save atomically replaces the file with data.
func (b *FileBackend) Save(ctx context.Context, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, b.dirPerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, b.filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if b.beforeRename != nil {
		if err = b.beforeRename(tmpPath); err != nil {
			return err
		}
	}
	if err = os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	syncDir(dir)
	return nil
}

// Close is a no-op; the file is opened per operation.
func (b *FileBackend) Close() error {
	return nil
}

// syncDir flushes the directory entry so the rename survives a power loss.
// Not every platform supports it, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
