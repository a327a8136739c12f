package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// RefreshTokenPostgres is a PostgreSQL implementation of repository.RefreshTokenRepository.
type RefreshTokenPostgres struct {
	db *sql.DB
}

// NewRefreshTokenPostgres creates a new RefreshTokenPostgres repository.
func NewRefreshTokenPostgres(db *sql.DB) *RefreshTokenPostgres {
	return &RefreshTokenPostgres{db: db}
}

var _ repository.RefreshTokenRepository = (*RefreshTokenPostgres)(nil)

// Create stores a refresh token for userID.
func (r *RefreshTokenPostgres) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	const q = `INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, q, token, userID, expiresAt)
	return err
}

// Find returns the stored token row by its token string.
func (r *RefreshTokenPostgres) Find(ctx context.Context, token string) (*model.RefreshToken, error) {
	const q = `SELECT token, user_id, expires_at FROM refresh_tokens WHERE token = $1`
	var rt model.RefreshToken
	if err := r.db.QueryRowContext(ctx, q, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt); err != nil {
		return nil, err
	}
	return &rt, nil
}

// Delete removes a token by its token string.
func (r *RefreshTokenPostgres) Delete(ctx context.Context, token string) error {
	const q = `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.db.ExecContext(ctx, q, token)
	return err
}
