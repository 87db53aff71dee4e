package entity

import "time"

// Well-known role names seeded at install time.
const (
	RoleStudent   = "student"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
	RoleSuspended = "suspended"
)

// Role represents an authorization role. Users carry exactly one role;
// new registrations default to the lowest-privilege role (student).
type Role struct {
	ID          string
	Name        string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
