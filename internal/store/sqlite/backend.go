// Package sqlite stores the backing document as a single row in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"todo-app/internal/logging"
	"todo-app/internal/store/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DefaultDocument is the row name used when none is configured
const DefaultDocument = "default"

// Backend implements store.Backend on a SQLite database.
type Backend struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// New opens the database at dbPath (":memory:" for a throwaway database) and
// runs pending migrations.
func New(ctx context.Context, dbPath string) (*Backend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: an in-memory database only exists on the connection
	// that created it, and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	version, err := migrations.Run(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	logging.Debugf("sqlite: %s at schema version %d", dbPath, version)

	return &Backend{db: db, name: DefaultDocument, now: time.Now}, nil
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}

// Load returns the stored document body.
func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, b.name).Scan(&body)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %q: %w", b.name, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("query document: %w", err)
	}
	return []byte(body), nil
}

// Save replaces the stored document body in one transaction.
func (b *Backend) Save(ctx context.Context, data []byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	query := `
	INSERT INTO documents (name, body, updated_at, revision)
	VALUES (?, ?, ?, 1)
	ON CONFLICT(name) DO UPDATE SET
		body = excluded.body,
		updated_at = excluded.updated_at,
		revision = documents.revision + 1`

	if _, err := tx.ExecContext(ctx, query, b.name, string(data), FormatTimeForDB(b.now())); err != nil {
		tx.Rollback()
		return fmt.Errorf("write document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit document: %w", err)
	}
	return nil
}

// Revision reports how many times the document has been saved and when it
// was last written. A missing document reports fs.ErrNotExist.
func (b *Backend) Revision(ctx context.Context) (int64, time.Time, error) {
	var (
		revision  int64
		updatedAt string
	)
	err := b.db.QueryRowContext(ctx, `SELECT revision, updated_at FROM documents WHERE name = ?`, b.name).
		Scan(&revision, &updatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, time.Time{}, fmt.Errorf("document %q: %w", b.name, fs.ErrNotExist)
		}
		return 0, time.Time{}, fmt.Errorf("query revision: %w", err)
	}
	ts, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return revision, ts, nil
}
