package entity

import "time"

// Email categories recorded in the quota ledger.
const (
	EmailTypeVerification  = "verification"
	EmailTypePasswordReset = "password_reset"
)

// EmailLog is one append-only entry in the quota ledger. Rows are never
// mutated after insert; the daily quota is derived from the count of
// successful sends within the current calendar day.
type EmailLog struct {
	ID           string    `json:"id"`
	Recipient    string    `json:"recipient_email"`
	EmailType    string    `json:"email_type"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

// QuotaStatus describes the daily send budget at the moment of the check.
type QuotaStatus struct {
	CanSend   bool `json:"can_send"`
	Count     int  `json:"count"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
}

// EmailTypeStats aggregates today's ledger per email category.
type EmailTypeStats struct {
	EmailType string `json:"email_type"`
	Total     int64  `json:"total"`
	Sent      int64  `json:"sent"`
	Failed    int64  `json:"failed"`
}

// EmailDayStats aggregates the ledger per calendar day for monthly reporting.
type EmailDayStats struct {
	Date   time.Time `json:"date"`
	Total  int64     `json:"total"`
	Sent   int64     `json:"sent"`
	Failed int64     `json:"failed"`
}
