package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/config"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/mailer/templates"
)

// AuthService composes the credential store, token issuers and email guard
// into the register/login/verify/forgot/reset use cases.
type AuthService struct {
	Users        repo.UserRepository
	VerifyTokens repo.TokenRepository
	ResetTokens  repo.TokenRepository
	Email        *EmailService
	JWT          *helpers.JWTManager
	Logger       *logrus.Logger
	Cfg          *config.Config
}

func NewAuthService(
	users repo.UserRepository,
	verifyTokens, resetTokens repo.TokenRepository,
	email *EmailService,
	jwt *helpers.JWTManager,
	logger *logrus.Logger,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		Users:        users,
		VerifyTokens: verifyTokens,
		ResetTokens:  resetTokens,
		Email:        email,
		JWT:          jwt,
		Logger:       logger,
		Cfg:          cfg,
	}
}

// RegisterInput carries the registration form fields, already shape-validated
// at the HTTP boundary.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is the session credential plus a public-safe user projection.
type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      entity.PublicUser `json:"user"`
}

// Register creates an unverified account and attempts to send the
// verification email. Email delivery is best effort: a failed send is logged
// and the registration still succeeds.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if d := s.Cfg.AllowedEmailDomain; d != "" && !strings.HasSuffix(email, d) {
		return nil, ErrEmailDomainNotAllowed
	}

	user, err := s.Users.Create(ctx, repo.NewUser{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: in.Password,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if err := s.sendVerificationEmail(ctx, user.ID, user.Name, user.Email); err != nil {
		s.Logger.WithError(err).WithField("user_id", user.ID).
			Warn("verification email not sent during registration")
	}

	pub := user.Public()
	return &pub, nil
}

// Login authenticates the credentials and issues a session token. Lock and
// suspension checks run before the password comparison so a locked account
// rejects even a correct password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}
	if user.IsSuspended() {
		return nil, ErrAccountSuspended
	}

	if !helpers.CompareHashAndPassword(user.PasswordHash, password) {
		updated, ferr := s.Users.RecordFailedLogin(ctx, user.ID, s.Cfg.MaxLoginAttempts, int(s.Cfg.LockWindow.Minutes()))
		if ferr != nil {
			s.Logger.WithError(ferr).WithField("user_id", user.ID).Error("failed login not recorded")
		} else if updated.IsLocked(now) {
			s.Logger.WithFields(logrus.Fields{"user_id": user.ID, "attempts": updated.LoginAttempts}).
				Warn("account locked after repeated failed logins")
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.Users.RecordSuccessfulLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return s.issueSession(user)
}

// VerifyEmail consumes a verification token, marks the account verified and
// issues a session so the user is logged in immediately.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*LoginResult, error) {
	tw, err := s.VerifyTokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if tw == nil {
		return nil, ErrInvalidOrExpiredToken
	}
	if tw.UserIsVerified {
		return nil, ErrAlreadyVerified
	}

	// MarkVerified and Consume are separate statements. If the consume fails
	// the token stays unused, but a replay is rejected by the verified guard
	// above, so verification still happens exactly once.
	if err := s.Users.MarkVerified(ctx, tw.UserID); err != nil {
		return nil, err
	}
	if err := s.VerifyTokens.Consume(ctx, tw.ID); err != nil {
		s.Logger.WithError(err).WithField("token_id", tw.ID).Error("verification token not consumed")
	}

	user, err := s.Users.GetByID(ctx, tw.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueSession(user)
}

// ResendVerification issues a fresh verification token and sends it. Unknown
// emails return success to avoid account enumeration; send failures surface
// because resending is an explicit, single-purpose action.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("email", email).Info("resend requested for unknown email")
			return nil
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	return s.sendVerificationEmail(ctx, user.ID, user.Name, user.Email)
}

// ForgotPassword issues a reset token and mails the reset link. Unknown
// emails return success to avoid account enumeration; a provider failure for
// a real account surfaces, since without the email the reset cannot proceed.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, meta *repo.TokenMetadata) error {
	user, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("email", email).Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	tok, err := s.ResetTokens.Issue(ctx, user.ID, s.Cfg.PasswordResetTokenTTLHours, meta)
	if err != nil {
		return err
	}

	subject, text, html, err := templates.Render(templates.ResetPassword, templates.EmailData{
		Name:      user.Name,
		ActionURL: s.Cfg.ResetPasswordURL + "?token=" + tok.Token,
		ValidFor:  validFor(s.Cfg.PasswordResetTokenTTLHours),
	})
	if err != nil {
		return err
	}
	if err := s.Email.Send(ctx, user.Email, entity.EmailTypePasswordReset, subject, text, html); err != nil {
		s.Logger.WithError(err).WithField("user_id", user.ID).Warn("password reset email not sent")
		return err
	}
	return nil
}

// ResetPassword replaces the credential behind a valid reset token. A
// successful reset is treated as proof of ownership, so the lockout state is
// cleared. The caller must log in again; no session is issued here.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	tw, err := s.ResetTokens.Validate(ctx, token)
	if err != nil {
		return err
	}
	if tw == nil {
		return ErrInvalidOrExpiredToken
	}

	if err := s.Users.UpdatePassword(ctx, tw.UserID, newPassword); err != nil {
		return err
	}
	if err := s.ResetTokens.Consume(ctx, tw.ID); err != nil {
		s.Logger.WithError(err).WithField("token_id", tw.ID).Error("reset token not consumed")
	}
	if err := s.Users.RecordSuccessfulLogin(ctx, tw.UserID); err != nil {
		s.Logger.WithError(err).WithField("user_id", tw.UserID).Warn("lockout state not cleared after reset")
	}
	return nil
}

func (s *AuthService) issueSession(user *entity.User) (*LoginResult, error) {
	token, exp, err := s.JWT.Generate(user.ID, user.RoleName, user.IsVerified)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user.Public()}, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, userID, name, email string) error {
	tok, err := s.VerifyTokens.Issue(ctx, userID, s.Cfg.VerificationTokenTTLHours, nil)
	if err != nil {
		return err
	}
	subject, text, html, err := templates.Render(templates.VerifyEmail, templates.EmailData{
		Name:      name,
		ActionURL: s.Cfg.VerifyEmailURL + "?token=" + tok.Token,
		ValidFor:  validFor(s.Cfg.VerificationTokenTTLHours),
	})
	if err != nil {
		return err
	}
	return s.Email.Send(ctx, email, entity.EmailTypeVerification, subject, text, html)
}

func validFor(hours int) string {
	if hours == 1 {
		return "1 hora"
	}
	return fmt.Sprintf("%d horas", hours)
}
