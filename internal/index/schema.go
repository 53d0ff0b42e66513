// Package index provides a SQLite-backed catalog of ingredient reference
// records, kept in sync with the data directory.
package index

import (
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ingredients (
	path       TEXT PRIMARY KEY,
	category   TEXT NOT NULL,
	key        TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	fields     TEXT NOT NULL DEFAULT '{}',
	indexed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ingredients_category_key ON ingredients(category, key);
CREATE INDEX IF NOT EXISTS idx_ingredients_name ON ingredients(name);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn  *sql.DB
	clock clockwork.Clock
}

// Option configures Open.
type Option func(*DB)

// WithClock sets the clock used for indexed_at timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(db *DB) { db.clock = clock }
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string, opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	db := &DB{conn: conn, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
