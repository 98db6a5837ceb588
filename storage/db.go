// Package storage keeps the execution journal in a sqlite database and
// aggregates usage statistics from it.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
}

// Open opens the database and initializes the schema
func Open(dir string) (*DB, error) {
	dbPath := filepath.Join(dir, "auraclick.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the database schema
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,

		hotkey TEXT NOT NULL,
		action_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,

		success BOOLEAN NOT NULL,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_executions_timestamp ON executions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_executions_hotkey ON executions(hotkey);
	CREATE INDEX IF NOT EXISTS idx_executions_success ON executions(success);
	`

	_, err := db.conn.Exec(schema)
	return err
}
