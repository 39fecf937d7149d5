// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/teamvote/teamvote/cliparse"
)

// Open connects to the configured database. The sqlite driver is cgo-free,
// so a file path (or :memory:) is all the sqlite setup there is.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	switch cfg.DatabaseType {
	case "sqlite":
		conn, err := sql.Open("sqlite", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent handlers
		conn.SetMaxOpenConns(1)
		return conn, nil
	case "postgres":
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return conn, nil
	}
	return nil, errors.New("unsupported database type: " + cfg.DatabaseType)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The document tables mirror the partitioned document store this service
// replaced: full JSON bodies plus the few columns queries filter on.
// Timestamps are stored as RFC3339 text so the schema works unchanged on
// both sqlite and postgres.
const schema = `
-- Teams
CREATE TABLE IF NOT EXISTS team (
    slug TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    description TEXT,
    creator_sub TEXT NOT NULL,
    date_created TEXT NOT NULL,
    date_modified TEXT NOT NULL
);

-- Access documents (invitations / memberships)
CREATE TABLE IF NOT EXISTS access_doc (
    id TEXT PRIMARY KEY,
    rev TEXT NOT NULL,
    team TEXT NOT NULL,
    email TEXT NOT NULL,
    sub TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    UNIQUE (team, email)
);

CREATE INDEX IF NOT EXISTS idx_access_doc_team ON access_doc(team);
CREATE INDEX IF NOT EXISTS idx_access_doc_email ON access_doc(email);
CREATE INDEX IF NOT EXISTS idx_access_doc_sub ON access_doc(sub);

-- Election documents
CREATE TABLE IF NOT EXISTS election_doc (
    id TEXT PRIMARY KEY,
    rev TEXT NOT NULL,
    team TEXT NOT NULL,
    body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_doc_team ON election_doc(team);

-- Contest documents (each holds an ordered list of contests)
CREATE TABLE IF NOT EXISTS contest_doc (
    id TEXT PRIMARY KEY,
    rev TEXT NOT NULL,
    team TEXT NOT NULL,
    body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contest_doc_team ON contest_doc(team);
`
