package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/config"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	pginfra "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/infrastructure/postgres"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
)

// Removes tokens past their retention window and email logs older than the
// log retention period. Intended to run from cron, daily is plenty.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-cleanup", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	for _, kind := range []entity.TokenKind{entity.TokenVerification, entity.TokenPasswordReset} {
		repo := pginfra.NewTokenRepository(pool, kind)
		n, err := repo.DeleteExpired(ctx)
		if err != nil {
			logger.WithError(err).Errorf("cleanup of %s tokens failed", kind)
			continue
		}
		logger.Infof("removed %d expired %s tokens", n, kind)
	}

	logs := pginfra.NewEmailLogRepository(pool)
	n, err := logs.DeleteOld(ctx)
	if err != nil {
		logger.WithError(err).Error("cleanup of email logs failed")
	} else {
		logger.Infof("removed %d old email logs", n)
	}
}
