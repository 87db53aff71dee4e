package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/config"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
)

type authFixture struct {
	svc    *AuthService
	users  *fakeUserRepo
	verify *fakeTokenRepo
	reset  *fakeTokenRepo
	sender *fakeSender
	logs   *fakeEmailLogRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newFakeUserRepo()
	verify := newFakeTokenRepo(entity.TokenVerification, users)
	reset := newFakeTokenRepo(entity.TokenPasswordReset, users)
	sender := &fakeSender{}
	logs := &fakeEmailLogRepo{}
	logger := quietLogger()

	cfg := &config.Config{
		MaxLoginAttempts:           5,
		LockWindow:                 15 * time.Minute,
		VerificationTokenTTLHours:  24,
		PasswordResetTokenTTLHours: 1,
		VerifyEmailURL:             "http://localhost:5173/verify-email",
		ResetPasswordURL:           "http://localhost:5173/reset-password",
		DailyEmailLimit:            300,
	}

	email := NewEmailService(logs, sender, logger, cfg.DailyEmailLimit, true)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(users, verify, reset, email, jwt, logger, cfg)

	return &authFixture{svc: svc, users: users, verify: verify, reset: reset, sender: sender, logs: logs}
}

func (f *authFixture) register(t *testing.T, name, email, password string) *entity.PublicUser {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return u
}

func TestRegisterAndVerifyFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")
	assert.False(t, pub.IsVerified)

	// One active verification token, one email attempted.
	active := f.verify.activeFor(pub.ID)
	require.Len(t, active, 1)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "ana@alumno.ipn.mx", f.sender.sent[0].To)
	assert.Contains(t, f.sender.sent[0].Text, active[0].Token)

	result, err := f.svc.VerifyEmail(ctx, active[0].Token)
	require.NoError(t, err)
	assert.True(t, result.User.IsVerified)
	assert.NotEmpty(t, result.Token)

	stored, err := f.users.GetByID(ctx, pub.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.NotNil(t, stored.VerifiedAt)

	// The token was consumed, replaying it now fails like any bad token.
	_, err = f.svc.VerifyEmail(ctx, active[0].Token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")
	_, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Otra Ana", Email: "ana@alumno.ipn.mx", Password: "Passw0rd!",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterAfterAccountDeletion(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")
	require.NoError(t, f.users.SoftDelete(ctx, pub.ID))

	// Uniqueness covers live rows only; a tombstone frees the email.
	again := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")
	assert.NotEqual(t, pub.ID, again.ID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	pub := f.register(t, "Ana", "  ANA@Alumno.IPN.mx ", "Passw0rd!")
	assert.Equal(t, "ana@alumno.ipn.mx", pub.Email)
}

func TestRegisterRestrictedDomain(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.Cfg.AllowedEmailDomain = "@alumno.ipn.mx"

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@gmail.com", Password: "Passw0rd!",
	})
	assert.ErrorIs(t, err, ErrEmailDomainNotAllowed)
}

func TestRegisterSurvivesEmailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.sender.err = errProvider

	pub, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@alumno.ipn.mx", Password: "Passw0rd!",
	})
	require.NoError(t, err, "registration is not transactional with email delivery")
	assert.NotEmpty(t, pub.ID)

	// The failed attempt still landed in the ledger.
	require.Len(t, f.logs.entries, 1)
	assert.False(t, f.logs.entries[0].Success)
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	result, err := f.svc.Login(ctx, "ana@alumno.ipn.mx", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, pub.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)

	claims, err := f.svc.JWT.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, claims.UserID)
	assert.Equal(t, entity.RoleStudent, claims.Role)

	stored, _ := f.users.GetByID(ctx, pub.ID)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginUnknownEmailIsIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	_, errUnknown := f.svc.Login(context.Background(), "ghost@alumno.ipn.mx", "Passw0rd!")
	_, errWrong := f.svc.Login(context.Background(), "ana@alumno.ipn.mx", "nope")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginLockoutAfterMaxAttempts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	// Five consecutive failures, each reported as plain bad credentials.
	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, "ana@alumno.ipn.mx", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i+1)
	}

	stored, _ := f.users.GetByID(ctx, pub.ID)
	assert.Equal(t, 5, stored.LoginAttempts)
	assert.True(t, stored.IsLocked(time.Now()))

	// The lock was armed on attempt five, so even the correct password is
	// rejected with the lock error, not bad credentials.
	_, err := f.svc.Login(ctx, "ana@alumno.ipn.mx", "Passw0rd!")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginAfterLockWindowExpires(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	for i := 0; i < 5; i++ {
		_, _ = f.svc.Login(ctx, "ana@alumno.ipn.mx", "wrong")
	}

	// Lock expiry is lazy: rewind locked_until instead of waiting.
	stored, _ := f.users.GetByID(ctx, pub.ID)
	past := time.Now().Add(-time.Second)
	stored.LockedUntil = &past

	result, err := f.svc.Login(ctx, "ana@alumno.ipn.mx", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	stored, _ = f.users.GetByID(ctx, pub.ID)
	assert.Equal(t, 0, stored.LoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestLoginSuspendedAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	f.users.users[pub.ID].RoleName = entity.RoleSuspended

	_, err := f.svc.Login(ctx, "ana@alumno.ipn.mx", "Passw0rd!")
	assert.ErrorIs(t, err, ErrAccountSuspended)
}

func TestVerifyEmailAlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	// Verify through the first token, then request a fresh one and replay it
	// against the now-verified account.
	tok := f.verify.activeFor(pub.ID)[0]
	_, err := f.svc.VerifyEmail(ctx, tok.Token)
	require.NoError(t, err)

	fresh, err := f.verify.Issue(ctx, pub.ID, 24, nil)
	require.NoError(t, err)

	_, err = f.svc.VerifyEmail(ctx, fresh.Token)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendVerificationInvalidatesPriorToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	first := f.verify.activeFor(pub.ID)[0]

	require.NoError(t, f.svc.ResendVerification(ctx, "ana@alumno.ipn.mx"))

	// At most one active token per user; the first no longer validates.
	active := f.verify.activeFor(pub.ID)
	require.Len(t, active, 1)
	assert.NotEqual(t, first.Token, active[0].Token)

	_, err := f.svc.VerifyEmail(ctx, first.Token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = f.svc.VerifyEmail(ctx, active[0].Token)
	assert.NoError(t, err)
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResendVerification(context.Background(), "ghost@alumno.ipn.mx")
	assert.NoError(t, err, "unknown emails get the same generic success")
	assert.Empty(t, f.sender.sent)
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	tok := f.verify.activeFor(pub.ID)[0]
	_, err := f.svc.VerifyEmail(ctx, tok.Token)
	require.NoError(t, err)

	err = f.svc.ResendVerification(ctx, "ana@alumno.ipn.mx")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendVerificationSurfacesSendFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	f.sender.err = errProvider
	err := f.svc.ResendVerification(ctx, "ana@alumno.ipn.mx")
	assert.ErrorIs(t, err, ErrEmailSendFailure)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword(context.Background(), "ghost@alumno.ipn.mx", nil)
	assert.NoError(t, err)
	assert.Empty(t, f.reset.tokens, "no token issued for unknown accounts")
	assert.Empty(t, f.sender.sent)
}

func TestForgotPasswordIssuesTokenWithAuditMetadata(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")
	f.sender.sent = nil

	meta := &repo.TokenMetadata{IPAddress: "203.0.113.9", UserAgent: "Mozilla/5.0"}
	require.NoError(t, f.svc.ForgotPassword(ctx, "ana@alumno.ipn.mx", meta))

	active := f.reset.activeFor(pub.ID)
	require.Len(t, active, 1)
	assert.Equal(t, "203.0.113.9", active[0].IPAddress)
	assert.Equal(t, "Mozilla/5.0", active[0].UserAgent)

	require.Len(t, f.sender.sent, 1)
	assert.Contains(t, f.sender.sent[0].Text, active[0].Token)
}

func TestForgotPasswordSurfacesSendFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	f.sender.err = errProvider
	err := f.svc.ForgotPassword(ctx, "ana@alumno.ipn.mx", nil)
	assert.ErrorIs(t, err, ErrEmailSendFailure, "the reset cannot proceed without the email")

	// Unknown emails still get the generic success even while the provider
	// is down, so the error does not become an enumeration oracle.
	assert.NoError(t, f.svc.ForgotPassword(ctx, "nadie@alumno.ipn.mx", nil))
}

func TestResetPasswordClearsLockout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	// Lock the account with failed attempts, then reset via token.
	for i := 0; i < 5; i++ {
		_, _ = f.svc.Login(ctx, "ana@alumno.ipn.mx", "wrong")
	}
	stored, _ := f.users.GetByID(ctx, pub.ID)
	require.True(t, stored.IsLocked(time.Now()))

	require.NoError(t, f.svc.ForgotPassword(ctx, "ana@alumno.ipn.mx", nil))
	tok := f.reset.activeFor(pub.ID)[0]

	require.NoError(t, f.svc.ResetPassword(ctx, tok.Token, "NewPassw0rd!"))

	// A successful reset is proof of ownership: the lock is gone and the new
	// password logs in immediately.
	stored, _ = f.users.GetByID(ctx, pub.ID)
	assert.False(t, stored.IsLocked(time.Now()))
	assert.Equal(t, 0, stored.LoginAttempts)

	_, err := f.svc.Login(ctx, "ana@alumno.ipn.mx", "NewPassw0rd!")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "ana@alumno.ipn.mx", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordTokenSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	pub := f.register(t, "Ana", "ana@alumno.ipn.mx", "Passw0rd!")

	require.NoError(t, f.svc.ForgotPassword(ctx, "ana@alumno.ipn.mx", nil))
	tok := f.reset.activeFor(pub.ID)[0]

	require.NoError(t, f.svc.ResetPassword(ctx, tok.Token, "NewPassw0rd!"))

	err := f.svc.ResetPassword(ctx, tok.Token, "AnotherPassw0rd!")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResetPassword(context.Background(), "never-issued", "NewPassw0rd!")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

// errProvider stands in for any transport failure from the email provider.
var errProvider = errors.New("provider unavailable")
