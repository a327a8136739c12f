package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// UserSummary is the public projection of a user returned on login.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult bundles the token pair with the authenticated user's summary.
type LoginResult struct {
	AccessToken  string      `json:"access"`
	RefreshToken string      `json:"refresh"`
	User         UserSummary `json:"user"`
}

// TokenPair is returned by Refresh: a fresh access token plus the rotated
// refresh token.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// AuthService defines the identity use cases: registration, login,
// refresh-token rotation, and password re-verification.
type AuthService interface {
	// Register creates a user with the default client role. Validation and
	// duplicate username/email failures return FieldErrors.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	// Login verifies credentials and mints an access token plus a
	// server-stored refresh token. Bad credentials yield ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Refresh validates a stored refresh token, rotates it, and returns a new
	// token pair. Unknown or expired tokens yield ErrInvalidToken.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// VerifyPassword re-checks the authenticated user's password.
	VerifyPassword(ctx context.Context, userID, password string) (bool, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     repository.RefreshTokenRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService constructs an AuthService from repositories and JWT settings.
func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, cfg config.JWTConfig) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(cfg.Secret),
		accessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTTLHours) * time.Hour,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	fe := FieldErrors{}
	if in.Username == "" || in.Email == "" || in.Password == "" || in.PasswordConfirm == "" {
		fe.Add("detail", "Fill all fields")
	}
	if in.Password != in.PasswordConfirm {
		fe.Add("password_confirm", "Passwords do not match")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         model.RoleClient,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		// Uniqueness is enforced by the database, so duplicates surface here
		// rather than via a racy pre-check.
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			fe.Add("username", "Username is already taken")
			return nil, fe
		case errors.Is(err, repository.ErrEmailTaken):
			fe.Add("email", "Email is already registered")
			return nil, fe
		}
		return nil, err
	}
	return created, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := s.tokens.Create(ctx, u.ID, refresh, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         UserSummary{ID: u.ID, Username: u.Username, Email: u.Email},
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	stored, err := s.tokens.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.tokens.Delete(ctx, refreshToken)
		return nil, ErrInvalidToken
	}

	// Rotate: the presented token is single-use.
	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}
	next := uuid.NewString()
	if err := s.tokens.Create(ctx, stored.UserID, next, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	access, err := auth.GenerateToken(stored.UserID, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: next}, nil
}

func (s *authService) VerifyPassword(ctx context.Context, userID, password string) (bool, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}
