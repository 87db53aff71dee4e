package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/container"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	handlers "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/http"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/middleware"
)

// EmailModule wires the admin-only email ledger endpoints.
type EmailModule struct {
	Handler *handlers.EmailHandler
	Users   repo.UserRepository
}

func NewEmailModule(h *handlers.EmailHandler, users repo.UserRepository) *EmailModule {
	return &EmailModule{Handler: h, Users: users}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/emails")
	admin.Use(
		middleware.Auth(m.Users, container.GetJWT()),
		middleware.RequireAdmin(),
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.GET("/quota", m.Handler.Quota)
		admin.GET("/stats/today", m.Handler.TodayStats)
		admin.GET("/stats/monthly", m.Handler.MonthlyStats)
		admin.GET("/logs", m.Handler.RecentLogs)
		admin.POST("/cleanup", m.Handler.Cleanup)
	}
}
