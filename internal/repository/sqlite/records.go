package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/devtrack/internal/apperror"
	"github.com/sakif/devtrack/internal/repository"
)

// compile-time check that *DB implements repository.LocalStore
var _ repository.LocalStore = (*DB)(nil)

// Get returns the value stored under key, or apperror.ErrNotFound if the
// key is absent.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM records WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("record", key)
		}
		return nil, fmt.Errorf("sqlite: getting record %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value. The write is a
// single statement, so within one key it is atomic.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting record %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting an absent key is not
// an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("sqlite: deleting record %s: %w", key, err)
	}
	return nil
}
