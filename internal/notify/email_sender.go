package notify

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

const dialTimeout = 10 * time.Second

// EmailConfig holds SMTP configuration for failure emails.
type EmailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// EmailNotifier delivers failure reports over SMTP.
type EmailNotifier struct {
	cfg EmailConfig
}

var _ Notifier = (*EmailNotifier)(nil)

// NewEmail creates a notifier with the given SMTP configuration.
func NewEmail(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Notify sends a plain-text failure report.
func (n *EmailNotifier) Notify(ctx context.Context, r Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("Timeline pipeline failed: %s", r.Category))
	m.SetBody("text/plain", renderReport(r))

	dialer := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Pass)
	dialer.Timeout = dialTimeout

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("notify: send failure email to %s: %w", n.cfg.To, err)
	}
	return nil
}
