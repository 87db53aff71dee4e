package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
)

var tokenTables = map[entity.TokenKind]string{
	entity.TokenVerification:  "verification_tokens",
	entity.TokenPasswordReset: "password_reset_tokens",
}

// TokenRepository is the pgx-backed token issuer for one token kind. The two
// kinds live in separate tables with the same shape; password reset rows
// additionally carry requester IP and user agent for audit.
type TokenRepository struct {
	db    DB
	kind  entity.TokenKind
	table string
}

func NewTokenRepository(db DB, kind entity.TokenKind) *TokenRepository {
	table, ok := tokenTables[kind]
	if !ok {
		panic(fmt.Sprintf("unknown token kind %q", kind))
	}
	return &TokenRepository{db: db, kind: kind, table: table}
}

// generateToken returns 32 random bytes hex-encoded: 256 bits of entropy.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue invalidates every active token of this kind for the user, then
// inserts a fresh one, inside a single transaction. The ordering guarantees
// at most one active token per user per kind.
func (r *TokenRepository) Issue(ctx context.Context, userID string, ttlHours int, meta *repository.TokenMetadata) (*entity.Token, error) {
	tokenStr, err := generateToken()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE `+r.table+`
		SET used_at = now()
		WHERE user_id = $1 AND used_at IS NULL
	`, userID); err != nil {
		return nil, err
	}

	t := &entity.Token{UserID: userID, Kind: r.kind, Token: tokenStr}
	if r.kind == entity.TokenPasswordReset {
		var ip, ua *string
		if meta != nil {
			if meta.IPAddress != "" {
				ip = &meta.IPAddress
			}
			if meta.UserAgent != "" {
				ua = &meta.UserAgent
			}
			t.IPAddress = meta.IPAddress
			t.UserAgent = meta.UserAgent
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO `+r.table+` (user_id, token, expires_at, ip_address, user_agent)
			VALUES ($1, $2, now() + make_interval(hours => $3), $4, $5)
			RETURNING id, expires_at, created_at
		`, userID, tokenStr, ttlHours, ip, ua).Scan(&t.ID, &t.ExpiresAt, &t.CreatedAt)
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO `+r.table+` (user_id, token, expires_at)
			VALUES ($1, $2, now() + make_interval(hours => $3))
			RETURNING id, expires_at, created_at
		`, userID, tokenStr, ttlHours).Scan(&t.ID, &t.ExpiresAt, &t.CreatedAt)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate returns (nil, nil) for used, expired and unknown tokens alike, and
// for tokens whose owner was soft-deleted. Callers cannot tell which case
// they hit.
func (r *TokenRepository) Validate(ctx context.Context, token string) (*entity.TokenWithUser, error) {
	tw := &entity.TokenWithUser{}
	tw.Kind = r.kind
	err := r.db.QueryRow(ctx, `
		SELECT t.id, t.user_id, t.token, t.expires_at, t.used_at, t.created_at,
		       u.name, u.email, u.is_verified
		FROM `+r.table+` t
		JOIN users u ON t.user_id = u.id
		WHERE t.token = $1
		  AND t.used_at IS NULL
		  AND t.expires_at > now()
		  AND u.deleted_at IS NULL
	`, token).Scan(
		&tw.ID, &tw.UserID, &tw.Token.Token, &tw.ExpiresAt, &tw.UsedAt, &tw.CreatedAt,
		&tw.UserName, &tw.UserEmail, &tw.UserIsVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tw, nil
}

func (r *TokenRepository) Consume(ctx context.Context, tokenID string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE `+r.table+`
		SET used_at = now()
		WHERE id = $1 AND used_at IS NULL
	`, tokenID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.Exec(ctx, `
		DELETE FROM `+r.table+`
		WHERE expires_at < now() - INTERVAL '7 days'
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
