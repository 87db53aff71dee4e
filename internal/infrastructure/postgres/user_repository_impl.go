package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
)

const pgUniqueViolation = "23505"

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role_id,
	r.name, r.display_name,
	COALESCE(u.profile_picture_url, ''),
	u.is_verified, u.verified_at,
	u.login_attempts, u.locked_until, u.last_login_at,
	u.created_at, u.updated_at, u.deleted_at`

// UserRepository is the pgx-backed credential store. All lookups exclude
// soft-deleted rows and join role metadata.
type UserRepository struct {
	db         DB
	bcryptCost int
}

func NewUserRepository(db DB, bcryptCost int) *UserRepository {
	return &UserRepository{db: db, bcryptCost: bcryptCost}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.RoleName, &u.RoleDisplayName,
		&u.ProfilePictureURL,
		&u.IsVerified, &u.VerifiedAt,
		&u.LoginAttempts, &u.LockedUntil, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create hashes the plaintext password and inserts the user row. An empty
// RoleID defaults to the student role. A live row with the same email maps
// the unique violation to ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, nu repository.NewUser) (*entity.User, error) {
	hash, err := helpers.HashPassword(nu.Password, r.bcryptCost)
	if err != nil {
		return nil, err
	}

	roleID := nu.RoleID
	if roleID == "" {
		if err := r.db.QueryRow(ctx,
			`SELECT id FROM roles WHERE name = $1`, entity.RoleStudent,
		).Scan(&roleID); err != nil {
			return nil, err
		}
	}

	u := &entity.User{Name: nu.Name, Email: nu.Email, PasswordHash: hash, RoleID: roleID}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role_id, is_verified)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, is_verified, login_attempts, created_at, updated_at
	`, nu.Name, nu.Email, hash, roleID)

	if err := row.Scan(&u.ID, &u.IsVerified, &u.LoginAttempts, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.id = $1 AND u.deleted_at IS NULL
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.email = $1 AND u.deleted_at IS NULL
	`, email))
}

// MarkVerified is idempotent: re-verifying an already verified user keeps
// is_verified true and leaves the original verified_at stamp.
func (r *UserRepository) MarkVerified(ctx context.Context, userID string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_verified = true,
		    verified_at = COALESCE(verified_at, now()),
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword, r.bcryptCost)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
	`, hash, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, up repository.ProfileUpdate) (*entity.User, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = COALESCE($1, name),
		    profile_picture_url = COALESCE($2, profile_picture_url),
		    updated_at = now()
		WHERE id = $3 AND deleted_at IS NULL
	`, up.Name, up.ProfilePictureURL, userID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RecordFailedLogin increments the counter and arms the lock in one
// conditional statement, so concurrent failures cannot lose an update.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, userID string, maxAttempts, lockMinutes int) (*entity.User, error) {
	u := &entity.User{ID: userID}
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET login_attempts = login_attempts + 1,
		    locked_until = CASE
		        WHEN login_attempts + 1 >= $2
		        THEN now() + make_interval(mins => $3)
		        ELSE locked_until
		    END,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING login_attempts, locked_until
	`, userID, maxAttempts, lockMinutes).Scan(&u.LoginAttempts, &u.LockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) RecordSuccessfulLogin(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET login_attempts = 0,
		    locked_until = NULL,
		    last_login_at = now(),
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, userID)
	return err
}

func (r *UserRepository) Stats(ctx context.Context) (*entity.UserStats, error) {
	s := &entity.UserStats{}
	err := r.db.QueryRow(ctx, `
		SELECT
		    COUNT(*),
		    COUNT(*) FILTER (WHERE is_verified = true),
		    COUNT(*) FILTER (WHERE created_at > now() - INTERVAL '30 days'),
		    COUNT(*) FILTER (WHERE last_login_at > now() - INTERVAL '7 days')
		FROM users
		WHERE deleted_at IS NULL
	`).Scan(&s.TotalUsers, &s.VerifiedUsers, &s.NewUsers30d, &s.ActiveUsers7d)
	if err != nil {
		return nil, err
	}
	return s, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
