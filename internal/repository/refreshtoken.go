package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// RefreshTokenRepository stores opaque refresh tokens server-side so they can
// be rotated and revoked independently of access tokens.
type RefreshTokenRepository interface {
	// Create stores a refresh token for userID expiring at expiresAt.
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error

	// Find returns the stored token row, or sql.ErrNoRows.
	Find(ctx context.Context, token string) (*model.RefreshToken, error)

	// Delete removes a token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error
}
