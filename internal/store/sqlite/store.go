// Package sqlite implements the record engine against a local SQLite
// database file: generic CRUD driven by the schema registry, name-or-id
// reference resolution, the append-only audit log, and the transaction
// manager the batch commit runs under.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Store wraps the open database file.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens (or creates) the SQLite database file and applies the
// connection pragmas. Foreign keys are enforced from here on.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// One connection: the tool is single-user and per-connection pragmas
	// must hold for every statement.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	for _, pragma := range schema.Pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return &Store{db: db, path: path, log: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InitSchema creates every table and index. Idempotent: all statements are
// CREATE ... IF NOT EXISTS.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, t := range schema.Tables {
		for _, stmt := range t.DDL() {
			s.log.Debug("executing SQL", "sql", stmt)
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create table %s: %w", t.Name, err)
			}
		}
	}
	return nil
}
