package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/application"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/response"
)

// writeError translates a business error into an HTTP response. Errors
// outside the known set are reported as a generic 500 so internal details
// never leak to clients.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, application.ErrEmailDomainNotAllowed):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, application.ErrAccountLocked):
		status, msg = http.StatusLocked, err.Error()
	case errors.Is(err, application.ErrAccountSuspended):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, application.ErrInvalidOrExpiredToken):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrAlreadyVerified):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, application.ErrQuotaExceeded):
		status, msg = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, application.ErrEmailSendFailure):
		status, msg = http.StatusBadGateway, application.ErrEmailSendFailure.Error()
	case errors.Is(err, application.ErrUserNotFound):
		status, msg = http.StatusNotFound, err.Error()
	}

	resp := response.Error[any](c, status, msg, nil)
	c.JSON(resp.Status, resp)
}
