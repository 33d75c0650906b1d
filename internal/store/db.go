// Package store persists missions, cached feed records and load runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"space-mission-pipeline/internal/model"
)

// Store wraps the SQLite connection pool shared by all components
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open connects to the SQLite database at dbPath and verifies it is reachable.
// The schema is not touched; call EnsureSchema.
func Open(ctx context.Context, dbPath string, busyTimeoutMillis int64, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on", dbPath, busyTimeoutMillis)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, unavailable("open "+dbPath, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("ping "+dbPath, err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool for callers that need raw queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// unavailable wraps a driver error so callers can match ErrStorageUnavailable
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrStorageUnavailable, op, err)
}

// formatTime and parseTime keep timestamps as sortable UTC text
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
