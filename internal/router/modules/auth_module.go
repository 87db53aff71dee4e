package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/container"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	handlers "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/http"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/middleware"
)

// AuthModule wires the public authentication endpoints. The email-sending
// routes carry the tightest per-IP limits since each hit can burn daily
// email quota.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repo.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, users repo.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 3, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/verify-email", verifyLimiter, m.Handler.VerifyEmail)
	rg.POST("/auth/resend-verification", resendLimiter, m.Handler.ResendVerification)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetJWT()))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
