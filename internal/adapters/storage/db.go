package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS trainer (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active'
	);

	CREATE TABLE IF NOT EXISTS class (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		trainer_id TEXT,
		season TEXT,
		FOREIGN KEY (trainer_id) REFERENCES trainer(id)
	);

	CREATE TABLE IF NOT EXISTS trainee (
		id TEXT PRIMARY KEY,
		name_ar TEXT NOT NULL,
		name_en TEXT,
		phone TEXT,
		birth_date TEXT,
		class_id TEXT,
		monthly_fee REAL,
		status TEXT NOT NULL DEFAULT 'active',
		FOREIGN KEY (class_id) REFERENCES class(id)
	);

	CREATE TABLE IF NOT EXISTS schedule (
		id TEXT PRIMARY KEY,
		class_id TEXT NOT NULL,
		day TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		FOREIGN KEY (class_id) REFERENCES class(id)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		trainee_id TEXT NOT NULL,
		class_date TEXT NOT NULL,
		present INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (trainee_id) REFERENCES trainee(id)
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		trainee_id TEXT NOT NULL,
		amount REAL NOT NULL,
		month TEXT NOT NULL,
		method TEXT,
		paid_at TEXT,
		FOREIGN KEY (trainee_id) REFERENCES trainee(id)
	);

	CREATE TABLE IF NOT EXISTS notice (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_by TEXT NOT NULL,
		target_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS import_log (
		id TEXT PRIMARY KEY,
		table_key TEXT NOT NULL,
		file_name TEXT NOT NULL,
		total_rows INTEGER NOT NULL,
		created_count INTEGER NOT NULL,
		updated_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		imported_by TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
