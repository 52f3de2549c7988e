package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Members and their funding accounts
CREATE TABLE IF NOT EXISTS members (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    wallet_address TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS accounts (
    member_id INTEGER PRIMARY KEY,
    balance INTEGER NOT NULL DEFAULT 0 CHECK(balance >= 0),
    FOREIGN KEY (member_id) REFERENCES members(id)
);

-- Access keys for identity resolution
CREATE TABLE IF NOT EXISTS access_keys (
    key_hash TEXT PRIMARY KEY,
    member_id INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (member_id) REFERENCES members(id)
);

-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    budget INTEGER NOT NULL CHECK(budget > 0),
    deadline TIMESTAMP NOT NULL,
    team_size INTEGER NOT NULL CHECK(team_size >= 1),
    status TEXT NOT NULL CHECK(status IN ('OPEN', 'ACTIVE', 'COMPLETED', 'CANCELLED')),
    document_ref TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (owner_id) REFERENCES members(id)
);
CREATE INDEX IF NOT EXISTS idx_project_status ON projects(status);

-- Participants: one row per (project, member), never removed
CREATE TABLE IF NOT EXISTS participants (
    project_id INTEGER NOT NULL,
    member_id INTEGER NOT NULL,
    joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    voted INTEGER NOT NULL DEFAULT 0,
    active INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (project_id, member_id),
    FOREIGN KEY (project_id) REFERENCES projects(id),
    FOREIGN KEY (member_id) REFERENCES members(id)
);
CREATE INDEX IF NOT EXISTS idx_project_participants ON participants(project_id);

-- Escrows: one per project
CREATE TABLE IF NOT EXISTS escrows (
    project_id INTEGER PRIMARY KEY,
    locked_amount INTEGER NOT NULL CHECK(locked_amount > 0),
    released INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Transfer log: every fund movement leg
CREATE TABLE IF NOT EXISTS transfers (
    id TEXT PRIMARY KEY,
    project_id INTEGER,
    member_id INTEGER NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('fund', 'deposit', 'release', 'refund')),
    amount INTEGER NOT NULL CHECK(amount >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id),
    FOREIGN KEY (member_id) REFERENCES members(id)
);
CREATE INDEX IF NOT EXISTS idx_project_transfers ON transfers(project_id);

-- Content-addressed documents
CREATE TABLE IF NOT EXISTS documents (
    ref TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    content BLOB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
