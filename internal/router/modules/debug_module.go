package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/container"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public expvar endpoint, rate-limited per IP; private networks bypass
	// the limiter so internal scrapers are never throttled.
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
