package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a transactional email and returns the provider message id.
// The quota guard owns the decision of whether a send may happen; Sender only
// performs the delivery.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) (string, error)
}

// Mailgun wraps Mailgun client configuration. The timeout bounds the provider
// call independently of the store's timeouts, so a slow provider cannot hold
// a request open indefinitely.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string, timeout time.Duration) *Mailgun {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, Timeout: timeout}
}

// Send sends an email via Mailgun. html is optional; if provided it is used
// as the HTML body with text as the fallback.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) (string, error) {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, id, err := client.Send(c, msg)
	if err != nil {
		return "", err
	}
	return id, nil
}

var _ Sender = (*Mailgun)(nil)
