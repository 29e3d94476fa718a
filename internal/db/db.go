// Package db provides SQLite persistence for emission sets and their
// edit history.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/tOgg1/emitline/internal/logging"
)

const (
	defaultBusyTimeoutMs = 5000

	// timeFormat is fixed width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Config configures Open.
type Config struct {
	// Path is the database file. It is created along with its directory.
	Path string

	// BusyTimeoutMs is how long SQLite waits on a locked database.
	BusyTimeoutMs int

	// MaxRetries bounds TransactionWithRetry attempts for saves.
	MaxRetries int
}

// DB wraps a SQLite handle with the schema emitline needs.
type DB struct {
	*sql.DB
	logger     zerolog.Logger
	path       string
	maxRetries int
}

// Open opens (creating if needed) the database at cfg.Path and ensures the
// schema exists.
func Open(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	busy := cfg.BusyTimeoutMs
	if busy <= 0 {
		busy = defaultBusyTimeoutMs
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)", cfg.Path, busy)
	return open(dsn, cfg.Path, cfg.MaxRetries, 0)
}

// OpenInMemory opens a private in-memory database. It is limited to one
// connection so every query sees the same database.
func OpenInMemory() (*DB, error) {
	return open(":memory:?_pragma=foreign_keys(ON)", ":memory:", 0, 1)
}

func open(dsn, path string, maxRetries, maxConns int) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:         sqlDB,
		logger:     logging.Component("db"),
		path:       path,
		maxRetries: maxRetries,
	}
	if err := db.ensureSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	db.logger.Debug().Str("path", path).Msg("database opened")
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// Transaction runs fn inside a transaction, committing if fn returns nil.
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS emission_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS emissions (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL REFERENCES emission_sets(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			start_offset_ms INTEGER NOT NULL CHECK (start_offset_ms >= 0),
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS emissions_set_idx ON emissions(set_id, position)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			set_id TEXT NOT NULL DEFAULT '',
			payload_json TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS events_set_idx ON events(set_id, timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
