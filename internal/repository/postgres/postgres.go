// Package postgres implements the remote user-document store on PostgreSQL.
//
// Each user is a single JSONB document keyed by uid, which keeps the remote
// side schemaless the way the mobile client expects: the whole UserData
// object travels as one document, and partial updates merge named fields
// into it. created_at and updated_at are server-assigned — clients never
// supply their own timestamps.
//
// The store lives across the network and can be unreachable. Every error it
// returns (other than not-found) is a candidate for the service layer's
// "remote unavailable, fall back to local" classification; nothing here
// tries to hide connectivity failures.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/devtrack/internal/apperror"
	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/repository"
)

// compile-time check that *Store implements repository.UserStore
var _ repository.UserStore = (*Store)(nil)

// Store provides user-document persistence backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Config holds the connection settings for the remote store.
type Config struct {
	DSN            string
	ConnectTimeout time.Duration
}

// New creates a connection pool, pings it for fail-fast validation, and
// prepares the users table.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing DSN: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			uid        TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}
	return nil
}

// Get returns the user document for uid, or apperror.ErrNotFound if no
// document exists. The server timestamps ride along on the returned value.
func (s *Store) Get(ctx context.Context, uid string) (*model.UserData, error) {
	var (
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT doc, created_at, updated_at FROM users WHERE uid = $1`, uid,
	).Scan(&doc, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", uid)
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", uid, err)
	}

	var data model.UserData
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("postgres: decoding user document %s: %w", uid, err)
	}
	data.UID = uid
	data.CreatedAt = createdAt
	data.UpdatedAt = updatedAt

	return &data, nil
}

// Create writes the full document for a new user. Timestamps are assigned by
// the server inside the same INSERT, so the caller either sees the complete
// document afterwards or, on failure, the prior absence — never a partial
// write.
//
// An existing document is left untouched: first-login bootstrap races
// resolve in favour of whoever got there first.
func (s *Store) Create(ctx context.Context, data *model.UserData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("postgres: encoding user document %s: %w", data.UID, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (uid, doc) VALUES ($1, $2)
		 ON CONFLICT (uid) DO NOTHING`,
		data.UID, doc,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating user %s: %w", data.UID, err)
	}
	return nil
}

// Patch merges the named fields into an existing document and stamps
// updated_at. JSONB concatenation replaces only the provided top-level
// fields, leaving the rest of the document intact — the same shallow-merge
// semantics the document API exposes to clients.
//
// Patching a non-existent uid returns apperror.ErrNotFound; the caller
// decides whether that means "create first".
func (s *Store) Patch(ctx context.Context, uid string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("postgres: encoding patch for %s: %w", uid, err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET doc = doc || $2::jsonb, updated_at = now() WHERE uid = $1`,
		uid, patch,
	)
	if err != nil {
		return fmt.Errorf("postgres: patching user %s: %w", uid, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("user", uid)
	}
	return nil
}
