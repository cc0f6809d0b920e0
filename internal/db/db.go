package db

import (
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS operators (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	agent1 TEXT NOT NULL,
	agent2 TEXT NOT NULL,
	wins1 INTEGER NOT NULL,
	wins2 INTEGER NOT NULL,
	draws INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	match_id TEXT NOT NULL,
	game_number INTEGER NOT NULL,
	agent_x TEXT NOT NULL,
	agent_o TEXT NOT NULL,
	result TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '',
	x_count INTEGER NOT NULL,
	o_count INTEGER NOT NULL,
	fallback_count INTEGER NOT NULL,
	moves TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_match_id ON games(match_id);
`

// LocalConnect opens the SQLite database at dbPath and verifies the schema.
// Use ":memory:" for an ephemeral database.
func LocalConnect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database connection: %w", err)
	}

	if err := initializeSchema(pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func initializeSchema(pool *sqlx.DB) error {
	if _, err := pool.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := pool.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
