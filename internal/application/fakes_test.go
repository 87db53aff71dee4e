package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
)

// In-memory doubles for the repository interfaces. They mirror the store
// contracts closely enough for use-case tests: soft-deleted rows disappear
// from lookups, issuing a token invalidates prior ones, the ledger counts
// only successful sends.

type fakeUserRepo struct {
	seq   int
	users map[string]*entity.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, nu repo.NewUser) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == nu.Email && u.DeletedAt == nil {
			return nil, repo.ErrDuplicateEmail
		}
	}
	hash, err := helpers.HashPassword(nu.Password, bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	f.seq++
	u := &entity.User{
		ID:           fmt.Sprintf("user-%d", f.seq),
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: hash,
		RoleName:     entity.RoleStudent,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) get(id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.get(id)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	u, err := f.get(userID)
	if err != nil {
		return err
	}
	if !u.IsVerified {
		u.IsVerified = true
		now := time.Now()
		u.VerifiedAt = &now
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, newPassword string) error {
	u, err := f.get(userID)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword, bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, userID string, up repo.ProfileUpdate) (*entity.User, error) {
	u, err := f.get(userID)
	if err != nil {
		return nil, err
	}
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.ProfilePictureURL != nil {
		u.ProfilePictureURL = *up.ProfilePictureURL
	}
	return u, nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, userID string) error {
	u, err := f.get(userID)
	if err != nil {
		return err
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (f *fakeUserRepo) RecordFailedLogin(_ context.Context, userID string, maxAttempts, lockMinutes int) (*entity.User, error) {
	u, err := f.get(userID)
	if err != nil {
		return nil, err
	}
	u.LoginAttempts++
	if u.LoginAttempts >= maxAttempts {
		until := time.Now().Add(time.Duration(lockMinutes) * time.Minute)
		u.LockedUntil = &until
	}
	return u, nil
}

func (f *fakeUserRepo) RecordSuccessfulLogin(_ context.Context, userID string) error {
	u, err := f.get(userID)
	if err != nil {
		return err
	}
	u.LoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (f *fakeUserRepo) Stats(context.Context) (*entity.UserStats, error) {
	s := &entity.UserStats{}
	for _, u := range f.users {
		if u.DeletedAt != nil {
			continue
		}
		s.TotalUsers++
		if u.IsVerified {
			s.VerifiedUsers++
		}
	}
	return s, nil
}

type fakeTokenRepo struct {
	kind   entity.TokenKind
	users  *fakeUserRepo
	seq    int
	tokens []*entity.Token
}

func newFakeTokenRepo(kind entity.TokenKind, users *fakeUserRepo) *fakeTokenRepo {
	return &fakeTokenRepo{kind: kind, users: users}
}

func (f *fakeTokenRepo) Issue(_ context.Context, userID string, ttlHours int, meta *repo.TokenMetadata) (*entity.Token, error) {
	now := time.Now()
	for _, t := range f.tokens {
		if t.UserID == userID && t.UsedAt == nil {
			used := now
			t.UsedAt = &used
		}
	}
	f.seq++
	t := &entity.Token{
		ID:        fmt.Sprintf("%s-tok-%d", f.kind, f.seq),
		UserID:    userID,
		Kind:      f.kind,
		Token:     fmt.Sprintf("%s-secret-%d", f.kind, f.seq),
		ExpiresAt: now.Add(time.Duration(ttlHours) * time.Hour),
		CreatedAt: now,
	}
	if meta != nil {
		t.IPAddress = meta.IPAddress
		t.UserAgent = meta.UserAgent
	}
	f.tokens = append(f.tokens, t)
	return t, nil
}

func (f *fakeTokenRepo) Validate(_ context.Context, token string) (*entity.TokenWithUser, error) {
	for _, t := range f.tokens {
		if t.Token != token || !t.Active(time.Now()) {
			continue
		}
		u, err := f.users.get(t.UserID)
		if err != nil {
			return nil, nil
		}
		return &entity.TokenWithUser{
			Token:          *t,
			UserName:       u.Name,
			UserEmail:      u.Email,
			UserIsVerified: u.IsVerified,
		}, nil
	}
	return nil, nil
}

func (f *fakeTokenRepo) Consume(_ context.Context, tokenID string) error {
	for _, t := range f.tokens {
		if t.ID == tokenID && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeTokenRepo) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func (f *fakeTokenRepo) activeFor(userID string) []*entity.Token {
	var out []*entity.Token
	for _, t := range f.tokens {
		if t.UserID == userID && t.Active(time.Now()) {
			out = append(out, t)
		}
	}
	return out
}

type sentMail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Text: text, HTML: html})
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

type ledgerEntry struct {
	Recipient string
	EmailType string
	Success   bool
	ErrorMsg  string
}

type fakeEmailLogRepo struct {
	entries  []ledgerEntry
	countErr error
	logErr   error
}

func (f *fakeEmailLogRepo) Log(_ context.Context, recipient, emailType string, success bool, errorMessage string) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.entries = append(f.entries, ledgerEntry{
		Recipient: recipient,
		EmailType: emailType,
		Success:   success,
		ErrorMsg:  errorMessage,
	})
	return nil
}

func (f *fakeEmailLogRepo) TodayCount(context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, e := range f.entries {
		if e.Success {
			count++
		}
	}
	return count, nil
}

func (f *fakeEmailLogRepo) TodayStats(context.Context) ([]entity.EmailTypeStats, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmailLogRepo) MonthlyStats(context.Context) ([]entity.EmailDayStats, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmailLogRepo) RecentLogs(context.Context, int) ([]entity.EmailLog, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmailLogRepo) DeleteOld(context.Context) (int64, error) { return 0, nil }

var (
	_ repo.UserRepository     = (*fakeUserRepo)(nil)
	_ repo.TokenRepository    = (*fakeTokenRepo)(nil)
	_ repo.EmailLogRepository = (*fakeEmailLogRepo)(nil)
)
