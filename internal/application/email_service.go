package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/mailer"
)

// EmailService gates every outbound email behind the daily quota and records
// the outcome in the ledger. The quota is checked synchronously before the
// provider call; a burst of concurrent sends can overshoot the ceiling by a
// handful, which is acceptable for a soft business limit.
type EmailService struct {
	Logs    repo.EmailLogRepository
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Limit   int
	Enabled bool
}

func NewEmailService(logs repo.EmailLogRepository, sender mailer.Sender, logger *logrus.Logger, limit int, enabled bool) *EmailService {
	return &EmailService{Logs: logs, Sender: sender, Logger: logger, Limit: limit, Enabled: enabled}
}

// CheckQuota derives today's successful-send count from the ledger. A ledger
// read failure counts as zero rather than blocking all mail, matching the
// guard's fail-open posture.
func (s *EmailService) CheckQuota(ctx context.Context) *entity.QuotaStatus {
	count, err := s.Logs.TodayCount(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("email quota count failed, assuming zero")
		}
		count = 0
	}
	remaining := s.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &entity.QuotaStatus{
		CanSend:   count < s.Limit,
		Count:     count,
		Limit:     s.Limit,
		Remaining: remaining,
	}
}

// Send checks the quota, invokes the provider, and appends the outcome to the
// ledger. An exhausted quota is logged as a failed attempt without touching
// the provider, so failed sends never count toward the limit.
func (s *EmailService) Send(ctx context.Context, recipient, emailType, subject, text, html string) error {
	if !s.Enabled {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"to": recipient, "type": emailType}).Info("mail sending disabled, skipping")
		}
		return nil
	}

	quota := s.CheckQuota(ctx)
	if !quota.CanSend {
		s.logAttempt(ctx, recipient, emailType, false, "quota exceeded")
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"to": recipient, "type": emailType, "count": quota.Count, "limit": quota.Limit}).
				Warn("daily email limit reached")
		}
		return ErrQuotaExceeded
	}

	msgID, err := s.Sender.Send(ctx, recipient, subject, text, html)
	if err != nil {
		s.logAttempt(ctx, recipient, emailType, false, err.Error())
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"to": recipient, "type": emailType}).Error("email send failed")
		}
		return fmt.Errorf("%w: %v", ErrEmailSendFailure, err)
	}

	s.logAttempt(ctx, recipient, emailType, true, "")
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"to": recipient, "type": emailType, "message_id": msgID}).Info("email sent")
	}
	return nil
}

// logAttempt appends to the ledger. A failed insert is logged and swallowed:
// losing one ledger row is better than failing the send that already
// happened.
func (s *EmailService) logAttempt(ctx context.Context, recipient, emailType string, success bool, errMsg string) {
	if err := s.Logs.Log(ctx, recipient, emailType, success, errMsg); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("email log insert failed")
	}
}

// Reporting passthroughs for the admin surface.

func (s *EmailService) TodayStats(ctx context.Context) ([]entity.EmailTypeStats, error) {
	return s.Logs.TodayStats(ctx)
}

func (s *EmailService) MonthlyStats(ctx context.Context) ([]entity.EmailDayStats, error) {
	return s.Logs.MonthlyStats(ctx)
}

func (s *EmailService) RecentLogs(ctx context.Context, limit int) ([]entity.EmailLog, error) {
	return s.Logs.RecentLogs(ctx, limit)
}

func (s *EmailService) CleanupOldLogs(ctx context.Context) (int64, error) {
	return s.Logs.DeleteOld(ctx)
}
