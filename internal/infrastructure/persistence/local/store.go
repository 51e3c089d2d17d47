// Package local provides the durable local key-value store that carries
// session drafts. It is best-effort by contract: a read or write failure is
// logged and absorbed, and callers fall back to in-memory defaults.
package local

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
)

const createStateTable = `
	CREATE TABLE IF NOT EXISTS session_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// Store is a string key-value store backed by a local sqlite file.
type Store struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

// NewStore opens (and if needed creates) the local store at path.
func NewStore(path string, logger *logging.ChanneledLogger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session store directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if _, err := db.Exec(createStateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session_state table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// NewStoreWithDB wraps an existing connection, creating the table if needed.
func NewStoreWithDB(db *sql.DB, logger *logging.ChanneledLogger) (*Store, error) {
	if _, err := db.Exec(createStateTable); err != nil {
		return nil, fmt.Errorf("failed to create session_state table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Get returns the value stored under key. A missing key or a read failure
// both report false; failures are logged, never surfaced.
func (s *Store) Get(key string) (string, bool) {
	const query = `SELECT value FROM session_state WHERE key = ?`

	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.Session().Warn("Local store read failed", "key", key, "error", err.Error())
		return "", false
	}
	return value, true
}

// Set stores a value under key, replacing any previous value. Failures are
// logged and absorbed.
func (s *Store) Set(key, value string) {
	const query = `
		INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	start := time.Now()
	if _, err := s.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		s.logger.Session().Warn("Local store write failed", "key", key, "error", err.Error())
		return
	}
	if duration := time.Since(start); duration > 100*time.Millisecond {
		s.logger.LogSlowQuery(query, duration)
	}
}

// Delete removes a key. Failures are logged and absorbed.
func (s *Store) Delete(key string) {
	const query = `DELETE FROM session_state WHERE key = ?`
	if _, err := s.db.Exec(query, key); err != nil {
		s.logger.Session().Warn("Local store delete failed", "key", key, "error", err.Error())
	}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
