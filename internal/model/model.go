package model

// Package model contains pure domain models shared across layers.
// No database tags or persistence dependencies here.

// Role is the single role attached to a user's profile.
// Users without an explicit profile row default to RoleClient.
type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleManager
}

// Actor is the authenticated identity making a request. It is resolved by the
// auth middleware on every request, so the role is always current.
type Actor struct {
	ID       string
	Username string
	Role     Role
}
