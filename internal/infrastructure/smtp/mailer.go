package smtp

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/go-pomodoro-api/internal/config"
)

// Mailer sends emails. Delivery is fire-and-forget from the caller's point
// of view: there is no queueing and no retry.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewMailer returns an SMTP-backed Mailer when SMTP_HOST is configured,
// otherwise a log-only mailer that records the message via slog. The log
// mailer stands in for real delivery in development.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return &logMailer{}
	}
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, htmlBody string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, htmlBody,
	)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

type logMailer struct{}

func (l *logMailer) SendEmail(to, subject, htmlBody string) error {
	slog.Info("mail dispatched (log only)", "to", to, "subject", subject, "body_bytes", len(htmlBody))
	return nil
}
