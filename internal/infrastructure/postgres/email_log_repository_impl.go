package postgres

import (
	"context"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
)

// EmailLogRepository is the pgx-backed quota ledger. Rows are insert-only;
// the daily count is computed against the database clock so every check sees
// the same day window.
type EmailLogRepository struct {
	db DB
}

func NewEmailLogRepository(db DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

func (r *EmailLogRepository) Log(ctx context.Context, recipient, emailType string, success bool, errorMessage string) error {
	var errMsg *string
	if errorMessage != "" {
		errMsg = &errorMessage
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO email_logs (recipient_email, email_type, success, error_message)
		VALUES ($1, $2, $3, $4)
	`, recipient, emailType, success, errMsg)
	return err
}

func (r *EmailLogRepository) TodayCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM email_logs
		WHERE sent_at >= CURRENT_DATE
		  AND sent_at < CURRENT_DATE + INTERVAL '1 day'
		  AND success = true
	`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EmailLogRepository) TodayStats(ctx context.Context) ([]entity.EmailTypeStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT email_type,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE success = true),
		       COUNT(*) FILTER (WHERE success = false)
		FROM email_logs
		WHERE sent_at >= CURRENT_DATE
		  AND sent_at < CURRENT_DATE + INTERVAL '1 day'
		GROUP BY email_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]entity.EmailTypeStats, 0)
	for rows.Next() {
		var s entity.EmailTypeStats
		if err := rows.Scan(&s.EmailType, &s.Total, &s.Sent, &s.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *EmailLogRepository) MonthlyStats(ctx context.Context) ([]entity.EmailDayStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DATE(sent_at),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE success = true),
		       COUNT(*) FILTER (WHERE success = false)
		FROM email_logs
		WHERE sent_at >= DATE_TRUNC('month', CURRENT_DATE)
		  AND sent_at < DATE_TRUNC('month', CURRENT_DATE) + INTERVAL '1 month'
		GROUP BY DATE(sent_at)
		ORDER BY DATE(sent_at) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]entity.EmailDayStats, 0)
	for rows.Next() {
		var s entity.EmailDayStats
		if err := rows.Scan(&s.Date, &s.Total, &s.Sent, &s.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *EmailLogRepository) RecentLogs(ctx context.Context, limit int) ([]entity.EmailLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, recipient_email, email_type, success, COALESCE(error_message, ''), sent_at
		FROM email_logs
		ORDER BY sent_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entity.EmailLog, 0, limit)
	for rows.Next() {
		var l entity.EmailLog
		if err := rows.Scan(&l.ID, &l.Recipient, &l.EmailType, &l.Success, &l.ErrorMessage, &l.SentAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *EmailLogRepository) DeleteOld(ctx context.Context) (int64, error) {
	res, err := r.db.Exec(ctx, `
		DELETE FROM email_logs
		WHERE sent_at < CURRENT_DATE - INTERVAL '30 days'
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.EmailLogRepository = (*EmailLogRepository)(nil)
