package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// Storage keys for the persisted session record. The two entries together
// form one logical record; SessionRepo.Write replaces them in one transaction.
const (
	keyAuthToken = "auth_token"
	keyAuthUser  = "auth_user"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the SessionStore port.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Read returns the stored token and serialized user record.
// Absent entries come back as empty strings.
func (r *SessionRepo) Read(ctx context.Context) (string, string, error) {
	token, err := r.get(ctx, keyAuthToken)
	if err != nil {
		return "", "", err
	}

	userJSON, err := r.get(ctx, keyAuthUser)
	if err != nil {
		return "", "", err
	}

	return token, userJSON, nil
}

// Write replaces both session entries in a single transaction so a reader
// never observes the token updated without the user record.
func (r *SessionRepo) Write(ctx context.Context, token, userJSON string) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT OR REPLACE INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := tx.ExecContext(ctx, query, keyAuthToken, token); err != nil {
		return fmt.Errorf("write %s: %w", keyAuthToken, err)
	}
	if _, err := tx.ExecContext(ctx, query, keyAuthUser, userJSON); err != nil {
		return fmt.Errorf("write %s: %w", keyAuthUser, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session write: %w", err)
	}
	return nil
}

// Clear removes both session entries. Clearing an empty store is a no-op.
func (r *SessionRepo) Clear(ctx context.Context) error {
	const query = `DELETE FROM session WHERE key IN (?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, keyAuthToken, keyAuthUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SessionRepo) get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM session WHERE key = ?`
	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}
