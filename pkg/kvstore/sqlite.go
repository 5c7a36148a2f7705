package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	getValueStatement = `
	SELECT value
	FROM kv_store
	WHERE key = ?
	`

	setValueStatement = `
	INSERT INTO kv_store (key, value)
	VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`

	removeValueStatement = `
	DELETE FROM kv_store
	WHERE key = ?
	`
)

// SQLiteStore keeps values in the kv_store table. The schema must already
// be in place (see db.UpgradeDB).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database connection. Closing the store
// closes the connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getValueStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key '%s': %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, setValueStatement, key, value); err != nil {
		return fmt.Errorf("failed to write key '%s': %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, removeValueStatement, key); err != nil {
		return fmt.Errorf("failed to remove key '%s': %w", key, err)
	}
	return nil
}

// Close checkpoints the WAL, if any, and closes the connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	// Harmless when the database is not in WAL mode.
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
