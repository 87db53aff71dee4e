package repository

import (
	"context"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
)

// NewUser carries the fields required to create an account.
// Password is the plaintext; the store hashes it before persisting.
type NewUser struct {
	Name     string
	Email    string
	Password string
	RoleID   string // empty defaults to the student role
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are left
// untouched.
type ProfileUpdate struct {
	Name              *string
	ProfilePictureURL *string
}

// UserRepository defines user-related database operations. Lookups exclude
// soft-deleted rows and join role metadata.
type UserRepository interface {
	Create(ctx context.Context, nu NewUser) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// MarkVerified sets is_verified and stamps verified_at. Idempotent at the
	// store level; already-verified rejection is a use-case concern.
	MarkVerified(ctx context.Context, userID string) error
	// UpdatePassword re-hashes and overwrites the credential; lock state is
	// untouched.
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, up ProfileUpdate) (*entity.User, error)
	SoftDelete(ctx context.Context, userID string) error

	// RecordFailedLogin increments login_attempts and, when the post-increment
	// value reaches maxAttempts, sets locked_until in the same statement.
	RecordFailedLogin(ctx context.Context, userID string, maxAttempts int, lockMinutes int) (*entity.User, error)
	// RecordSuccessfulLogin resets the counter, clears the lock and stamps
	// last_login_at.
	RecordSuccessfulLogin(ctx context.Context, userID string) error

	Stats(ctx context.Context) (*entity.UserStats, error)
}
