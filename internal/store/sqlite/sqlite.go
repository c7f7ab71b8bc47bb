// Package sqlite implements the store interface on an embedded SQLite
// database.
//
// This is the swap-in backend for deployments that outgrow the flat JSON
// file. It keeps the exact same whole-document Load/Save contract — Load
// reads both tables into one Document, Save replaces both tables inside a
// single transaction — so the service layer is byte-for-byte identical
// whichever backend is wired in.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// SQLite — works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/tipboard/internal/model"
	"github.com/sakif/tipboard/internal/store"
)

// compile-time check that *DB implements store.Store
var _ store.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements store.Store over it.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path or permission problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the tables if they don't exist. CREATE TABLE IF NOT EXISTS
// is idempotent, so this is safe to run on every start.
//
// No foreign key from tips.user_id to users: the JSON backend has no
// referential integrity either, and the listing join is defined to tolerate
// dangling references. Enforcing it only here would make the two backends
// behave differently.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			password        TEXT NOT NULL,
			profile_picture TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS tips (
			id      TEXT PRIMARY KEY,
			title   TEXT NOT NULL,
			user_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tips_user_id ON tips(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Load reads every user and tip into a single document.
func (db *DB) Load(ctx context.Context) (*store.Document, error) {
	doc := store.Empty()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, password, profile_picture FROM users ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.ProfilePicture); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		doc.Users = append(doc.Users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	tipRows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, user_id FROM tips ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tips: %w", err)
	}
	defer tipRows.Close()

	for tipRows.Next() {
		var t model.Tip
		if err := tipRows.Scan(&t.ID, &t.Title, &t.UserID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tip: %w", err)
		}
		doc.Tips = append(doc.Tips, t)
	}
	if err := tipRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tips: %w", err)
	}

	return doc, nil
}

// Save replaces the entire dataset inside one transaction.
//
// DELETE + re-INSERT is crude compared to diffing, but it preserves the
// whole-document overwrite semantics of the contract exactly, and the
// transaction gives us the "no partial write observable" guarantee the same
// way rename(2) does for the JSON backend.
func (db *DB) Save(ctx context.Context, doc *store.Document) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tips`); err != nil {
		return fmt.Errorf("sqlite: clearing tips: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("sqlite: clearing users: %w", err)
	}

	for _, u := range doc.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, password, profile_picture) VALUES (?, ?, ?, ?)`,
			u.ID, u.Username, u.Password, u.ProfilePicture,
		); err != nil {
			return fmt.Errorf("sqlite: inserting user %s: %w", u.ID, err)
		}
	}

	for _, t := range doc.Tips {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tips (id, title, user_id) VALUES (?, ?, ?)`,
			t.ID, t.Title, t.UserID,
		); err != nil {
			return fmt.Errorf("sqlite: inserting tip %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing: %w", err)
	}

	return nil
}
