package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/container"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	handlers "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/http"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/middleware"
)

// UserModule wires the authenticated profile surface and the admin user
// stats endpoint.
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository) *UserModule {
	return &UserModule{Handler: h, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/me", m.Handler.GetProfile)
		auth.PUT("/users/me", middleware.RequireVerified(), m.Handler.UpdateProfile)
		auth.POST("/users/me/picture", middleware.RequireVerified(), m.Handler.UploadProfilePicture)
		auth.DELETE("/users/me", m.Handler.DeleteAccount)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Users, container.GetJWT()), middleware.RequireAdmin())
	{
		admin.GET("/users/stats", m.Handler.Stats)
	}
}
