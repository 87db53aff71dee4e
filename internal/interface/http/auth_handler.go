package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/application"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/response"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,strongpwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, user, "account created, check your email to verify it", nil)
	c.JSON(resp.Status, resp)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, result, "login successful", nil)
	c.JSON(resp.Status, resp)
}

// VerifyEmail POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	result, err := h.Auth.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, result, "email verified", nil)
	c.JSON(resp.Status, resp)
}

// ResendVerification POST /api/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	if err := h.Auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "if the account exists, a verification email was sent", nil)
	c.JSON(resp.Status, resp)
}

// ForgotPassword POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	meta := &repo.TokenMetadata{
		IPAddress: clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email, meta); err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "if the account exists, a reset email was sent", nil)
	c.JSON(resp.Status, resp)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,strongpwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	if err := h.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "password updated, please log in again", nil)
	c.JSON(resp.Status, resp)
}

// Logout POST /api/auth/logout. Sessions are stateless bearer tokens, so
// logout only tells the client to discard its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	resp := response.Success[any](c, http.StatusOK, nil, "logged out", nil)
	c.JSON(resp.Status, resp)
}
