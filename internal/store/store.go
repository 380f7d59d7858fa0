package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"reelintake/internal/config"
	"reelintake/internal/submission"
)

// Store persists submissions and their child rows in SQLite. It is the local
// implementation of the datastore contract the submission orchestrator and
// the review surface write through.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the submission database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "intake.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// classifyError maps SQLite failures onto the typed store error codes the
// orchestrator understands. Unclassified errors pass through wrapped so they
// surface as UNKNOWN_ERROR upstream.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	text := err.Error()
	switch {
	case strings.Contains(text, "UNIQUE constraint failed"):
		return &submission.StoreError{
			Code:    submission.CodeUniqueViolation,
			Message: "duplicate key value violates unique constraint",
			Details: text,
		}
	case strings.Contains(text, "NOT NULL constraint failed"):
		return &submission.StoreError{
			Code:    submission.CodeNotNullViolation,
			Message: "null value violates not-null constraint",
			Details: text,
		}
	case strings.Contains(text, "readonly database") || errors.Is(err, sql.ErrConnDone):
		return &submission.StoreError{
			Code:    submission.CodePermissionDenied,
			Message: "permission denied for " + op,
			Details: text,
		}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
