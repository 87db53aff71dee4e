package repository

import (
	"context"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
)

// TokenMetadata is the audit context captured when a password reset token is
// requested.
type TokenMetadata struct {
	IPAddress string
	UserAgent string
}

// TokenRepository manages single-use tokens of one kind.
type TokenRepository interface {
	// Issue marks every active token of this kind for the user as used, then
	// inserts a fresh token expiring ttlHours from now. Both steps run in one
	// transaction so two valid tokens never coexist.
	Issue(ctx context.Context, userID string, ttlHours int, meta *TokenMetadata) (*entity.Token, error)

	// Validate returns the token joined with its owner only when it is unused,
	// unexpired and the owner is not soft-deleted. Every other state yields
	// (nil, nil): expired, consumed and unknown tokens are indistinguishable
	// to the caller.
	Validate(ctx context.Context, token string) (*entity.TokenWithUser, error)

	// Consume stamps used_at; call it only after the action the token
	// authorizes has succeeded.
	Consume(ctx context.Context, tokenID string) error

	// DeleteExpired removes tokens past the retention window (7 days after
	// expiry) and returns how many were deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}
