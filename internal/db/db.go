package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite history database connection
type DB struct {
	conn *sql.DB
	path string
}

// New opens or creates the SQLite database at the given path
func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// history may be read while another process is recording
	if _, err := conn.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 2000;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	db := &DB{conn: conn, path: path}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// migrations are applied in order; entry i brings the schema to version i+1
var migrations = []string{
	migrationV1,
}

func (d *DB) migrate() error {
	if _, err := d.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return err
	}

	current, err := d.schemaVersion()
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		if err := d.applyMigration(i+1, migrations[i]); err != nil {
			return fmt.Errorf("migration v%d failed: %w", i+1, err)
		}
	}
	return nil
}

func (d *DB) schemaVersion() (int, error) {
	var v int
	err := d.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}

func (d *DB) applyMigration(version int, stmt string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// migrationV1 creates the initial schema
const migrationV1 = `
-- One row per save/apply/remove run
CREATE TABLE IF NOT EXISTS layout_events (
    id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL,
    profile TEXT NOT NULL,
    action TEXT NOT NULL,
    status TEXT NOT NULL,
    args TEXT,
    details TEXT,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_layout_events_profile ON layout_events(profile);
CREATE INDEX IF NOT EXISTS idx_layout_events_time ON layout_events(timestamp);
`

// Event is one recorded layout operation
type Event struct {
	ID        int64
	RunID     string
	Profile   string
	Action    string
	Status    string
	Args      []string
	Details   string
	Timestamp time.Time
}

// Actions
const (
	ActionSave   = "save"
	ActionApply  = "apply"
	ActionRemove = "remove"
)

// Statuses
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
