// Package sqlite persists hierarchy nodes, reference entities and the
// append-only ledger. SQLite keeps the deployment single-binary; the
// pure-Go driver avoids cgo.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Serialized access: the ledger is low-volume and concurrent node
	// creation is handled by ON CONFLICT, not driver concurrency.
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error { return d.db.Close() }

// Migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Four-level classification hierarchy. Node creation is
		// insert-if-absent; nodes are never deleted once referenced.
		`CREATE TABLE IF NOT EXISTS chapters (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			chapter_id TEXT NOT NULL REFERENCES chapters(id)
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			section_id TEXT NOT NULL REFERENCES sections(id)
		)`,
		`CREATE TABLE IF NOT EXISTS types (
			id      TEXT PRIMARY KEY,
			name    TEXT NOT NULL,
			item_id TEXT NOT NULL REFERENCES items(id)
		)`,

		// Reference entities, owned by the surrounding CRUD system.
		`CREATE TABLE IF NOT EXISTS directorates (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS offices (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			directorate_id INTEGER NOT NULL REFERENCES directorates(id),
			name           TEXT NOT NULL,
			UNIQUE(directorate_id, name)
		)`,

		// Append-only ledger. Amounts are decimal strings; corrections are
		// new rows, never updates.
		`CREATE TABLE IF NOT EXISTS entries (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			office_id      INTEGER NOT NULL,
			directorate_id INTEGER NOT NULL,
			leaf_key       TEXT NOT NULL DEFAULT '',
			account        TEXT NOT NULL DEFAULT '',
			flow           TEXT NOT NULL,
			amount         TEXT NOT NULL,
			date           TEXT NOT NULL,
			batch_id       TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_office ON entries(office_id)`,

		// One row per processed spreadsheet file.
		`CREATE TABLE IF NOT EXISTS import_batches (
			id          TEXT PRIMARY KEY,
			number      TEXT NOT NULL,
			file_name   TEXT NOT NULL,
			directorate TEXT NOT NULL,
			month       INTEGER NOT NULL,
			year        INTEGER NOT NULL,
			imported    INTEGER NOT NULL DEFAULT 0,
			skipped     INTEGER NOT NULL DEFAULT 0,
			status      TEXT NOT NULL,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

func (d *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	return nil
}
