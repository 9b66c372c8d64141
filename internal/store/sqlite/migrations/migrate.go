// Package migrations brings the document table of a SQLite database up to the
// layout the sqlite backend reads and writes.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"todo-app/internal/logging"
)

//go:embed *.up.sql
var stepsFS embed.FS

// DocumentColumns are the columns of the documents table once every step has
// been applied.
var DocumentColumns = []string{"name", "body", "updated_at", "revision"}

// Step is one schema change, loaded from a file named
// <version>_<name>.up.sql.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Run applies every step the database has not seen yet, each in its own
// transaction, then checks that the documents table has DocumentColumns. It
// returns the schema version the database ends on.
func Run(ctx context.Context, db *sql.DB) (int, error) {
	steps, err := loadSteps(stepsFS)
	if err != nil {
		return 0, fmt.Errorf("load schema steps: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		return 0, err
	}
	if err := checkHistory(steps, applied); err != nil {
		return 0, err
	}

	pending := 0
	for _, step := range steps {
		if _, ok := applied[step.Version]; ok {
			continue
		}
		logging.Debugf("schema: applying %06d_%s", step.Version, step.Name)
		if err := apply(ctx, db, step); err != nil {
			return 0, fmt.Errorf("apply %06d_%s: %w", step.Version, step.Name, err)
		}
		pending++
	}
	if pending == 0 {
		logging.Debugln("schema: up to date")
	}

	if err := verifyDocumentTable(ctx, db); err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		return 0, nil
	}
	return steps[len(steps)-1].Version, nil
}

// loadSteps reads the step files sorted by version. Versions must start at 1
// and have no gaps, so a missing file is caught before anything runs.
func loadSteps(fsys fs.FS) ([]Step, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(names))
	for _, file := range names {
		version, name, err := parseStepName(file)
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Version: version, Name: name, SQL: string(body)})
	}

	slices.SortFunc(steps, func(a, b Step) int { return a.Version - b.Version })
	for i, step := range steps {
		if step.Version != i+1 {
			return nil, fmt.Errorf("schema step %06d_%s: expected version %d", step.Version, step.Name, i+1)
		}
	}
	return steps, nil
}

// parseStepName splits "000002_add_document_revision.up.sql" into 2 and
// "add_document_revision".
func parseStepName(file string) (int, string, error) {
	base := strings.TrimSuffix(file, ".up.sql")
	prefix, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("schema step %q: want <version>_<name>.up.sql", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("schema step %q: bad version %q", file, prefix)
	}
	return version, name, nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[int]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]string)
	for rows.Next() {
		var (
			version int
			name    string
		)
		if err := rows.Scan(&version, &name); err != nil {
			return nil, fmt.Errorf("read schema_migrations: %w", err)
		}
		applied[version] = name
	}
	return applied, rows.Err()
}

// checkHistory refuses a database written by a newer build, or one whose
// recorded steps no longer match the embedded ones.
func checkHistory(steps []Step, applied map[int]string) error {
	for version, name := range applied {
		if version < 1 {
			return fmt.Errorf("schema_migrations holds invalid version %d", version)
		}
		if version > len(steps) {
			return fmt.Errorf("database schema version %d is newer than this build (%d)", version, len(steps))
		}
		if want := steps[version-1].Name; name != want {
			return fmt.Errorf("schema step %d recorded as %q, expected %q", version, name, want)
		}
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, step Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		step.Version, step.Name, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// verifyDocumentTable fails when a column the backend depends on is missing,
// for example after someone edited the database by hand.
func verifyDocumentTable(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('documents')`)
	if err != nil {
		return fmt.Errorf("inspect documents table: %w", err)
	}
	defer rows.Close()

	var have []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return fmt.Errorf("inspect documents table: %w", err)
		}
		have = append(have, column)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect documents table: %w", err)
	}

	for _, column := range DocumentColumns {
		if !slices.Contains(have, column) {
			return fmt.Errorf("documents table is missing column %q", column)
		}
	}
	return nil
}
