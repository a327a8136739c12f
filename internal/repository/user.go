package repository

import (
	"context"

	"docvault/internal/model"
)

// UserRepository defines data access for users and their one-to-one profile.
// No business logic here — strictly persistence operations.
//
// All lookups resolve the profile role; a user without a profile row reads as
// model.RoleClient.
type UserRepository interface {
	// Create inserts a user row plus a default-role profile row in one
	// transaction. Unique violations map to ErrUsernameTaken / ErrEmailTaken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user (with role) by ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername returns a user (with role) by username, or sql.ErrNoRows.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
