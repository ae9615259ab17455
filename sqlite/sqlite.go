// Package sqlite provides SQLite-based storage for parsed announcement
// records.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tender_records (
			id TEXT PRIMARY KEY,
			info_id TEXT NOT NULL UNIQUE,
			source_url TEXT NOT NULL DEFAULT '',
			project_no TEXT NOT NULL DEFAULT '',
			project_name TEXT NOT NULL DEFAULT '',
			tender_method TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			budget_amount TEXT,
			publish_time TEXT,
			doc_acquisition_start TEXT,
			doc_acquisition_end TEXT,
			bidding_deadline TEXT,
			opening_time TEXT,
			opening_venue TEXT NOT NULL DEFAULT '',
			purchaser_name TEXT NOT NULL DEFAULT '',
			purchaser_address TEXT NOT NULL DEFAULT '',
			purchaser_phone TEXT NOT NULL DEFAULT '',
			agent_name TEXT NOT NULL DEFAULT '',
			agent_address TEXT NOT NULL DEFAULT '',
			agent_phone TEXT NOT NULL DEFAULT '',
			project_contact_name TEXT NOT NULL DEFAULT '',
			project_contact_phone TEXT NOT NULL DEFAULT '',
			section_overview TEXT NOT NULL DEFAULT '',
			section_basic_info TEXT NOT NULL DEFAULT '',
			section_qualification TEXT NOT NULL DEFAULT '',
			section_doc_acquisition TEXT NOT NULL DEFAULT '',
			section_bidding_schedule TEXT NOT NULL DEFAULT '',
			section_announcement_period TEXT NOT NULL DEFAULT '',
			section_other_matters TEXT NOT NULL DEFAULT '',
			section_contact TEXT NOT NULL DEFAULT '',
			section_procurement_need TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			parse_time TEXT NOT NULL,
			content_hash TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_tender_records_status ON tender_records(status);
		CREATE INDEX IF NOT EXISTS idx_tender_records_parse_time ON tender_records(parse_time);
	`

	_, err := db.db.Exec(schema)
	return err
}
