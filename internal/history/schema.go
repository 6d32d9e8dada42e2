package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion must change whenever schema.sql does. History is a log, not
// a source of truth, so older databases are reset instead of migrated.
const schemaVersion = 1

// ErrSchemaMismatch reports a history database written by another schema.
var ErrSchemaMismatch = errors.New("history schema mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	version, err := s.storedVersion(ctx)
	switch {
	case errors.Is(err, errNoSchema):
		return s.applySchema(ctx)
	case err != nil:
		return err
	case version != schemaVersion:
		return fmt.Errorf("%w: %s uses schema v%d, qascribe expects v%d; reset it with \"qascribe history --clear\"",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
	return nil
}

var errNoSchema = errors.New("no schema")

func (s *Store) storedVersion(ctx context.Context) (int, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errNoSchema
	}
	if err != nil {
		return 0, fmt.Errorf("look up schema_version: %w", err)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errNoSchema
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []struct {
		query string
		args  []any
	}{
		{query: schemaSQL},
		{query: "DELETE FROM schema_version"},
		{query: "INSERT INTO schema_version (version) VALUES (?)", args: []any{schemaVersion}},
	} {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return tx.Commit()
}

// Remove deletes the database at path along with its WAL side files. A
// missing database is not an error.
func Remove(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
