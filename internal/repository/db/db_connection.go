package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: the workbook tables are written from several goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaNamedValues = `
CREATE TABLE IF NOT EXISTS named_values (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

// snapshot is the fixed latest-reading row of the Data In sheet.
const schemaSnapshot = `
CREATE TABLE IF NOT EXISTS snapshot (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    date INTEGER NOT NULL,
    soil_moisture REAL NOT NULL,
    temperature REAL NOT NULL,
    humidity REAL NOT NULL,
    soil_temperature REAL NOT NULL,
    visible REAL NOT NULL,
    infra_red REAL NOT NULL,
    ultra_violet REAL NOT NULL,
    relay_state BOOLEAN NOT NULL,
    button1_state BOOLEAN NOT NULL,
    button2_state BOOLEAN NOT NULL
);
`

// data_rows is the history window; higher seq means nearer the top.
const schemaDataRows = `
CREATE TABLE IF NOT EXISTS data_rows (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    date INTEGER NOT NULL,
    soil_moisture REAL NOT NULL,
    temperature REAL NOT NULL,
    humidity REAL NOT NULL,
    soil_temperature REAL NOT NULL,
    visible REAL NOT NULL,
    infra_red REAL NOT NULL,
    ultra_violet REAL NOT NULL,
    relay_state BOOLEAN NOT NULL,
    button1_state BOOLEAN NOT NULL,
    button2_state BOOLEAN NOT NULL
);
`

const schemaStatusEvents = `
CREATE TABLE IF NOT EXISTS status_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    level TEXT NOT NULL,
    source TEXT NOT NULL,
    message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_status_events_occurred_at ON status_events (occurred_at);
`

const schemaGrowers = `
CREATE TABLE IF NOT EXISTS growers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaNamedValues,
		schemaSnapshot,
		schemaDataRows,
		schemaStatusEvents,
		schemaGrowers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
