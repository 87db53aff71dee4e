package router

import (
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/application"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/container"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	pginfra "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/infrastructure/postgres"
	handlers "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/interface/http"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/router/modules"
)

// InitModules constructs the repositories, services and handlers from the
// container singletons and registers every feature module.
// Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool, cfg.BcryptCost)
	verifyTokens := pginfra.NewTokenRepository(pool, entity.TokenVerification)
	resetTokens := pginfra.NewTokenRepository(pool, entity.TokenPasswordReset)
	emailLogs := pginfra.NewEmailLogRepository(pool)

	emailSvc := application.NewEmailService(emailLogs, container.GetMailSender(), logger, cfg.DailyEmailLimit, cfg.MailSendEnabled)
	authSvc := application.NewAuthService(users, verifyTokens, resetTokens, emailSvc, container.GetJWT(), logger, cfg)
	userSvc := application.NewUserService(users, container.GetGCS(), cfg.GCSBucket, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), users))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), users))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(emailSvc, logger), users))
	r.Add(modules.NewDebugModule())
}
