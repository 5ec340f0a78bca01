// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go translation of SQLite — no CGo, no C
// compiler, works everywhere Go works. The blank import registers the
// "sqlite" driver with database/sql at init time.
//
// Every multi-statement write runs inside a single transaction: either the
// whole operation lands or none of it does. Rollback on any failure leaves
// prior state unchanged.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One *DB implements every repository interface; the server hands the same
// value to each service.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — the usual
	// shape of web traffic.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The schema relies on them
	// for referential integrity and ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer this wherever New is called.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			username          TEXT NOT NULL UNIQUE,
			email             TEXT NOT NULL UNIQUE,
			password_hash     TEXT NOT NULL,
			profile_image_url TEXT NOT NULL DEFAULT '',
			birthdate         DATETIME,
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS difficulty_levels (
			id    TEXT PRIMARY KEY,
			grade TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS routes (
			id            TEXT PRIMARY KEY,
			difficulty_id TEXT NOT NULL REFERENCES difficulty_levels(id),
			type          TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS completed_routes (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			route_id  TEXT NOT NULL REFERENCES routes(id),
			date      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			flash     INTEGER NOT NULL DEFAULT 0,
			image_url TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_completed_routes_user_id ON completed_routes(user_id);

		CREATE TABLE IF NOT EXISTS goals (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			target_date DATETIME,
			completed   INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id);

		CREATE TABLE IF NOT EXISTS achievements (
			id      TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name    TEXT NOT NULL,
			date    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_achievements_user_id ON achievements(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error. The deferred Rollback is a no-op after Commit.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}
