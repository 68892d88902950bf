package model

import "time"

// User status values. Blocked accounts are denied at login and on every
// authenticated request, not only hidden in admin views.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// RoleAdmin is the role name that grants access to the /admin surface.
const RoleAdmin = "admin"

// User represents a row in the `users` table. RoleName is populated by
// repository queries that join the roles table; it is not a column.
type User struct {
	ID           uint64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	RoleID       uint8
	RoleName     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user's role grants admin access.
func (u *User) IsAdmin() bool { return u.RoleName == RoleAdmin }

// Role maps a small integer ID to a role name ("admin", "user").
type Role struct {
	ID   uint8
	Name string
}
