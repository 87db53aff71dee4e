package application

import "errors"

// The closed set of business errors the auth use cases can return. Handlers
// dispatch on these with errors.Is and translate them into stable codes;
// anything outside this set surfaces as a generic internal error.
//
// ErrInvalidCredentials and ErrInvalidOrExpiredToken are deliberately
// low-information: wrong password, unknown account, expired token and reused
// token all collapse into the same message so callers cannot enumerate
// accounts or probe tokens.
var (
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountLocked         = errors.New("account temporarily locked")
	ErrAccountSuspended      = errors.New("account suspended")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrQuotaExceeded         = errors.New("daily email limit reached")
	ErrEmailSendFailure      = errors.New("email delivery failed")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailDomainNotAllowed = errors.New("email domain not allowed")
)
