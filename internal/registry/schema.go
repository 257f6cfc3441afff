// Package registry provides the SQLite-backed asset and installed component store.
package registry

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS assets (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	brand         TEXT NOT NULL,
	model         TEXT NOT NULL,
	serial_number TEXT NOT NULL DEFAULT '',
	launch_type   TEXT NOT NULL DEFAULT 'throw-over',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_serial ON assets(serial_number) WHERE serial_number != '';

CREATE TABLE IF NOT EXISTS installed_components (
	id            TEXT PRIMARY KEY,
	asset_id      TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	name          TEXT NOT NULL,
	type          TEXT NOT NULL DEFAULT '',
	quantity      INTEGER NOT NULL DEFAULT 1,
	valid_until   TEXT NOT NULL DEFAULT '',
	serial_number TEXT NOT NULL DEFAULT '',
	state         TEXT NOT NULL DEFAULT 'new',
	installed_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_components_asset ON installed_components(asset_id, seq);
`

// DB wraps a sql.DB with registry operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("registry: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("registry: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("registry: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// New wraps an existing connection without applying the schema.
func New(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
