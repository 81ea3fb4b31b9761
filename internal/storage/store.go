// Package storage is the persistence layer: an embedded SQLite store with
// versioned schema migration, CRUD for the three record families and the
// derived aggregation queries.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is the shared database handle. Construct it once with Open (or
// OpenOnce) and pass it to collaborators; the underlying engine serializes
// writes while reads stay concurrent.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// WAL keeps readers unblocked during writes; busy_timeout makes
	// concurrent writers wait instead of failing immediately.
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("Store opened", "path", path, "schema_version", SchemaVersion)
	return &Store{db: db}, nil
}

var (
	openOnce     sync.Once
	sharedStore  *Store
	sharedOpenErr error
)

// OpenOnce opens the store exactly once no matter how many goroutines race
// on first access; later calls return the same handle (and the same error,
// if opening failed). Prefer plain Open with explicit handle passing; this
// exists for callers that need lazy construct-once semantics.
func OpenOnce(path string) (*Store, error) {
	openOnce.Do(func() {
		sharedStore, sharedOpenErr = Open(path)
	})
	return sharedStore, sharedOpenErr
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for the aggregation queries and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}
