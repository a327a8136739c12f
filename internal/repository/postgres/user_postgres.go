package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// userSelect joins the one-to-one profile; a missing profile row reads as the
// least-privileged role.
const userSelect = `
	SELECT u.id, u.username, u.email, u.password_hash, COALESCE(p.role, 'client'), u.created_at
	FROM users u
	LEFT JOIN user_profiles p ON p.user_id = u.id
`

// Create inserts the user and its default profile row in one transaction.
// Unique index violations are translated to repository sentinel errors so the
// caller never needs a racy existence pre-check.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	role := u.Role
	if !role.Valid() {
		role = model.RoleClient
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const qUser = `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, password_hash, created_at
	`
	var out model.User
	err = tx.QueryRowContext(ctx, qUser,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
	).Scan(
		&out.ID,
		&out.Username,
		&out.Email,
		&out.PasswordHash,
		&out.CreatedAt,
	)
	if err != nil {
		if constraint, ok := constraintViolation(err, codeUniqueViolation); ok {
			switch constraint {
			case "users_username_key":
				return nil, repository.ErrUsernameTaken
			case "users_email_key":
				return nil, repository.ErrEmailTaken
			}
		}
		return nil, err
	}

	const qProfile = `INSERT INTO user_profiles (user_id, role) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, qProfile, out.ID, string(role)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	out.Role = role
	return &out, nil
}

// FindByID fetches a single user (with resolved role) by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

// FindByUsername fetches a single user (with resolved role) by username.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.username = $1`, username)
}

func (r *UserPostgres) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
