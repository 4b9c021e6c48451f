// Package db persists a record of every generated script in SQLite.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with skriptgen-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    audience TEXT NOT NULL DEFAULT '',
    format TEXT NOT NULL CHECK(format IN ('txt','json','html')),
    path TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scripts_session ON scripts(session_id);
CREATE INDEX IF NOT EXISTS idx_scripts_created ON scripts(created_at);
`

// ScriptRecord is one saved script.
type ScriptRecord struct {
	ID           int64
	SessionID    string
	Organization string
	Audience     string
	Format       string
	Path         string
	CreatedAt    time.Time
}

// RecordScript stores one saved script and returns its row id.
func (d *DB) RecordScript(rec ScriptRecord) (int64, error) {
	res, err := d.Exec(
		`INSERT INTO scripts (session_id, organization, audience, format, path) VALUES (?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Organization, rec.Audience, rec.Format, rec.Path,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting script record: %w", err)
	}
	return res.LastInsertId()
}

// CountScripts returns the number of saved scripts.
func (d *DB) CountScripts() (int, error) {
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM scripts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting scripts: %w", err)
	}
	return n, nil
}

// ListRecentScripts returns up to limit script records, newest first.
func (d *DB) ListRecentScripts(limit int) ([]ScriptRecord, error) {
	rows, err := d.Query(
		`SELECT id, session_id, organization, audience, format, path, created_at
		 FROM scripts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}
	defer rows.Close()

	var out []ScriptRecord
	for rows.Next() {
		var rec ScriptRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Organization, &rec.Audience,
			&rec.Format, &rec.Path, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning script record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
