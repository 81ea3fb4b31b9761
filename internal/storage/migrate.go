package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SchemaVersion is the version the migration steps below bring a database
// to. It is stored in PRAGMA user_version.
const SchemaVersion = 8

// step is one named, idempotent schema change. version is the schema
// version the step belongs to: a database whose stored version is below it
// still needs the step. bestEffort steps (legacy data backfills) log and
// skip on failure instead of aborting the migration.
type step struct {
	name       string
	version    int
	bestEffort bool
	run        func(ctx context.Context, tx *sql.Tx) error
}

var steps = []step{
	{
		name:    "create transactions table",
		version: 1,
		run: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS transactions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				type TEXT NOT NULL,
				amount REAL NOT NULL,
				category TEXT NOT NULL,
				note TEXT NOT NULL DEFAULT '',
				date TEXT NOT NULL
			)`)
			return err
		},
	},
	{
		name:    "create transaction indexes",
		version: 4,
		run: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx,
				`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions (type)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_date_type ON transactions (date, type)`,
			)
		},
	},
	{
		name:    "create diary table",
		version: 5,
		run: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx,
				`CREATE TABLE IF NOT EXISTS diary (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					title TEXT NOT NULL DEFAULT '',
					content TEXT NOT NULL,
					mood TEXT NOT NULL DEFAULT '',
					date TEXT NOT NULL,
					created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_diary_date ON diary (date)`,
			)
		},
	},
	{
		name:    "create todos table",
		version: 7,
		run: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx,
				`CREATE TABLE IF NOT EXISTS todos (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					status TEXT NOT NULL DEFAULT 'not_started',
					priority TEXT NOT NULL DEFAULT '',
					due_date TEXT NOT NULL DEFAULT '',
					tags TEXT NOT NULL DEFAULT '',
					date TEXT NOT NULL,
					created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
					assignee TEXT NOT NULL DEFAULT '',
					attachment TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE INDEX IF NOT EXISTS idx_todos_date ON todos (date)`,
				`CREATE INDEX IF NOT EXISTS idx_todos_status ON todos (status)`,
				`CREATE INDEX IF NOT EXISTS idx_todos_priority ON todos (priority)`,
				`CREATE INDEX IF NOT EXISTS idx_todos_due ON todos (due_date)`,
			)
		},
	},
	{
		name:       "backfill todos from legacy table",
		version:    7,
		bestEffort: true,
		run: func(ctx context.Context, tx *sql.Tx) error {
			// todos_v1 only existed in installs predating the task tracker
			// rewrite; on any other database this step fails and is skipped.
			_, err := tx.ExecContext(ctx, `INSERT INTO todos (title, status, priority, date, created_at)
				SELECT title,
				       CASE WHEN completed = 1 THEN 'completed' ELSE 'not_started' END,
				       COALESCE(priority, ''),
				       date,
				       created_at
				FROM todos_v1`)
			return err
		},
	},
	{
		name:    "add todo assignee column",
		version: 8,
		run: func(ctx context.Context, tx *sql.Tx) error {
			return addColumn(ctx, tx, "todos", "assignee", `TEXT NOT NULL DEFAULT ''`)
		},
	},
	{
		name:    "add todo attachment column",
		version: 8,
		run: func(ctx context.Context, tx *sql.Tx) error {
			return addColumn(ctx, tx, "todos", "attachment", `TEXT NOT NULL DEFAULT ''`)
		},
	},
}

// Migrate brings db up to SchemaVersion. All pending steps run inside one
// exclusive write transaction; on failure the version marker is left where
// it was. Running against a current database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	var current int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	for _, s := range steps {
		if s.version <= current {
			continue
		}
		if err := s.run(ctx, tx); err != nil {
			if s.bestEffort {
				slog.WarnContext(ctx, "Skipping best-effort migration step",
					"step", s.name, "error", err)
				continue
			}
			return fmt.Errorf("migration step %q: %w", s.name, err)
		}
		slog.DebugContext(ctx, "Applied migration step", "step", s.name, "version", s.version)
	}

	// PRAGMA does not take placeholders.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	slog.InfoContext(ctx, "Schema migrated", "from", current, "to", SchemaVersion)
	return nil
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// addColumn is a no-op when the column already exists, so column-add steps
// tolerate re-application and freshly created tables.
func addColumn(ctx context.Context, tx *sql.Tx, table, column, decl string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	return err
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &primaryKey); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
