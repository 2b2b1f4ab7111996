// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. We use
// modernc.org/sqlite (a pure Go translation of the SQLite C code) instead of
// mattn/go-sqlite3, so no CGo and no C compiler, and cross-compilation stays
// painless.
//
// WHERE THE INVARIANTS LIVE:
// Every uniqueness rule in the system is a constraint in this schema, not an
// application-level check:
//   - users.username UNIQUE, users.email UNIQUE   → duplicate registration
//   - tokens.token UNIQUE                         → token strings never collide
//   - likes UNIQUE(user_id, resource_id)          → at most one like per pair
//
// Under concurrent conflicting writes SQLite picks exactly one winner; the
// loser gets SQLITE_CONSTRAINT_UNIQUE, which the repositories translate to
// apperror.ErrConflict. Ownership cascades (user → tokens/resources/comments/
// likes, resource → comments/likes) are ON DELETE CASCADE foreign keys, which
// is why PRAGMA foreign_keys=ON below is not optional.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and owns the schema.
//
// The five entity repositories (Users, Tokens, Resources, Comments, Likes)
// are thin views over the same pool — each accessor returns a struct
// implementing one repository interface. The split exists because every
// interface has its own Create/GetByID/Delete; a single receiver can't carry
// five methods with the same name.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository view.
func (db *DB) Users() *UserRepo { return &UserRepo{conn: db.conn} }

// Tokens returns the token repository view.
func (db *DB) Tokens() *TokenRepo { return &TokenRepo{conn: db.conn} }

// Resources returns the resource repository view.
func (db *DB) Resources() *ResourceRepo { return &ResourceRepo{conn: db.conn} }

// Comments returns the comment repository view.
func (db *DB) Comments() *CommentRepo { return &CommentRepo{conn: db.conn} }

// Likes returns the like repository view.
func (db *DB) Likes() *LikeRepo { return &LikeRepo{conn: db.conn} }

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/resourcehub.db" → file-based database (persistent)
//   - ":memory:"            → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	// "sqlite" is the driver name registered by the modernc.org/sqlite import.
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single connection, not a pool. PRAGMAs are per-connection — a pool
	// would hand out connections with foreign keys OFF — and a ":memory:"
	// database is per-connection too. SQLite allows one writer at a time
	// anyway, so the pool buys nothing here.
	conn.SetMaxOpenConns(1)

	// Ping verifies the connection actually works. Without this, a bad path
	// or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode: allows concurrent reads while a write is happening.
	// Critical for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. Every ownership cascade in
	// the schema depends on them being ON.
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

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to run
// on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT UNIQUE,
			password_hash TEXT NOT NULL,
			display_name  TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// tokens.token is the lookup key for every authenticated request — the
	// UNIQUE constraint doubles as its index.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tokens (
			id         TEXT PRIMARY KEY,
			token      TEXT NOT NULL UNIQUE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tokens_user_id ON tokens(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tokens table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS resources (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			url         TEXT NOT NULL,
			type        TEXT NOT NULL,
			created_at  DATETIME NOT NULL,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_resources_user_id ON resources(user_id);
		CREATE INDEX IF NOT EXISTS idx_resources_created_at ON resources(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating resources table: %w", err)
	}

	// Tags are an ordered child collection; position preserves submission order.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS resource_tags (
			resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			tag         TEXT NOT NULL,
			PRIMARY KEY (resource_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating resource_tags table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id          TEXT PRIMARY KEY,
			text        TEXT NOT NULL,
			created_at  DATETIME NOT NULL,
			author_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_comments_resource_id ON comments(resource_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	// The UNIQUE pair constraint is the "at most one like per (user, resource)"
	// invariant. It must be enforced here so concurrent likes race in SQLite,
	// not in Go.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS likes (
			id          TEXT PRIMARY KEY,
			created_at  DATETIME NOT NULL,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
			UNIQUE (user_id, resource_id)
		);
		CREATE INDEX IF NOT EXISTS idx_likes_resource_id ON likes(resource_id);
	`)
	if err != nil {
		return fmt.Errorf("creating likes table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure from
// the driver. This is how a lost insert race becomes apperror.ErrConflict
// instead of an unhandled 500.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
