package entity

import "time"

// TokenKind selects which single-use token family a record belongs to.
type TokenKind string

const (
	TokenVerification  TokenKind = "verification"
	TokenPasswordReset TokenKind = "password_reset"
)

// Token is a single-use, time-limited secret bound to a user.
// At most one active (unused, unexpired) token exists per user per kind;
// issuing a new one marks all prior active tokens of that kind used.
type Token struct {
	ID        string
	UserID    string
	Kind      TokenKind
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time

	// Audit metadata, recorded for password reset tokens only.
	IPAddress string
	UserAgent string
}

// Active reports whether the token is still consumable at instant now.
func (t *Token) Active(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// TokenWithUser is a validated token joined with its (non-deleted) owner.
type TokenWithUser struct {
	Token
	UserName       string
	UserEmail      string
	UserIsVerified bool
}
