// Package history keeps an append-only ledger of environment events in
// SQLite. The metadata record stays authoritative for last_used and
// usage_count; the ledger exists for activation trends, analytics, and the
// drift audit trail written by the watcher.
package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Event kinds recorded in the ledger.
const (
	KindActivation   = "activation"
	KindCreated      = "created"
	KindRemoved      = "removed"
	KindDriftCreated = "drift-created"
	KindDriftRemoved = "drift-removed"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    environment TEXT NOT NULL,
    kind TEXT NOT NULL,
    observed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_environment ON events(environment);
CREATE INDEX IF NOT EXISTS idx_events_observed_at ON events(observed_at);
`

// Log provides SQLite-backed event storage.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path. Use ":memory:" for tests.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// WAL keeps the CLI readable while the watch daemon appends.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
