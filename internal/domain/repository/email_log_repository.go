package repository

import (
	"context"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
)

// EmailLogRepository is the append-only quota ledger. The daily count is
// always derived from the store's clock, never cached in-process.
type EmailLogRepository interface {
	Log(ctx context.Context, recipient, emailType string, success bool, errorMessage string) error

	// TodayCount returns the number of successful sends within the current
	// calendar day of the store's clock.
	TodayCount(ctx context.Context) (int, error)

	TodayStats(ctx context.Context) ([]entity.EmailTypeStats, error)
	MonthlyStats(ctx context.Context) ([]entity.EmailDayStats, error)
	RecentLogs(ctx context.Context, limit int) ([]entity.EmailLog, error)

	// DeleteOld prunes ledger rows older than 30 days and returns how many
	// were deleted.
	DeleteOld(ctx context.Context) (int64, error)
}
