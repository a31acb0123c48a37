// Package history persists a log of tool invocations in SQLite. The daemon
// attaches it to the registry as an observer; the registry itself stays
// state-free.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/blockbridge-dev/blockbridge/registry"

	_ "modernc.org/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS invocations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tool_name TEXT NOT NULL,
	success INTEGER NOT NULL,
	err_kind TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	invoked_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_invoked_at ON invocations(invoked_at);`

const (
	defaultStoreDir = ".blockbridge"
	defaultStoreDB  = "blockbridge.db"
)

// Entry is one recorded invocation.
type Entry struct {
	ID         int64
	ToolName   string
	Success    bool
	ErrKind    string
	DurationMS int64
	InvokedAt  time.Time
}

// StoreConfig configures the invocation store.
type StoreConfig struct {
	// DSN is the database path or connection string.
	DSN string
	// RetentionAge deletes entries older than this (0 = keep forever).
	RetentionAge time.Duration
	Logger       *slog.Logger
}

// Store is a SQLite-backed invocation log. It satisfies registry.Observer.
type Store struct {
	db     *sql.DB
	cfg    StoreConfig
	logger *slog.Logger
}

// DefaultPath returns the default store location under the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("history: resolve user home: %w", err)
	}
	return filepath.Join(home, defaultStoreDir, defaultStoreDB), nil
}

// Open opens (or creates) the invocation store.
func Open(cfg StoreConfig) (*Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if dir := filepath.Dir(cfg.DSN); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: set WAL mode: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db, cfg: cfg, logger: cfg.Logger}, nil
}

// ObserveInvoke records one invocation. Logging failures must never disturb
// tool dispatch, so errors are logged and swallowed.
func (s *Store) ObserveInvoke(ctx context.Context, obs registry.Observation) {
	if err := s.Append(ctx, obs); err != nil {
		s.logger.Warn("record invocation", "tool", obs.ToolName, "error", err)
	}
}

// Append stores one observation.
func (s *Store) Append(ctx context.Context, obs registry.Observation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (tool_name, success, err_kind, duration_ms, invoked_at)
		 VALUES (?, ?, ?, ?, ?)`,
		obs.ToolName,
		boolToInt(obs.Success),
		obs.ErrKind,
		obs.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool_name, success, err_kind, duration_ms, invoked_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var success int
		var invokedAt string
		if err := rows.Scan(&e.ID, &e.ToolName, &success, &e.ErrKind, &e.DurationMS, &invokedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Success = success != 0
		e.InvokedAt, _ = time.Parse(time.RFC3339Nano, invokedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the configured retention age. It is a
// no-op when no retention is configured.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.cfg.RetentionAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-s.cfg.RetentionAge).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, `DELETE FROM invocations WHERE invoked_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
