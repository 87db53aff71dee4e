package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash; plaintext never leaves
// the service layer.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	RoleID            string
	RoleName          string
	RoleDisplayName   string
	ProfilePictureURL string

	IsVerified bool
	VerifiedAt *time.Time

	LoginAttempts int
	LockedUntil   *time.Time
	LastLoginAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsLocked reports whether the account rejects login attempts at instant now.
// Lock expiry is lazy: a past LockedUntil stays in storage until the next
// successful login clears it.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// IsSuspended reports whether the account is administratively suspended.
// Suspension blocks login outright regardless of lockout state.
func (u *User) IsSuspended() bool {
	return u.RoleName == RoleSuspended
}

// PublicUser is the projection of a User that is safe to return to callers.
type PublicUser struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            string     `json:"role,omitempty"`
	RoleDisplayName string     `json:"role_display_name,omitempty"`
	IsVerified      bool       `json:"is_verified"`
	ProfilePicture  string     `json:"profile_picture,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Public returns the user projection exposed over the API.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.RoleName,
		RoleDisplayName: u.RoleDisplayName,
		IsVerified:      u.IsVerified,
		ProfilePicture:  u.ProfilePictureURL,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}

// UserStats is the aggregate snapshot shown on the admin dashboard.
type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	VerifiedUsers int64 `json:"verified_users"`
	NewUsers30d   int64 `json:"new_users_30d"`
	ActiveUsers7d int64 `json:"active_users_7d"`
}
