package model

import "time"

// User is a registered account. Username and email are unique; uniqueness is
// enforced by the database at creation time. PasswordHash is owned by the
// auth service and never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken is a server-stored opaque token exchanged for new access
// tokens until it expires.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
