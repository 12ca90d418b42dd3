// Package mailer delivers transactional email (password reset links).
package mailer

import (
	"context"

	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/config"
)

// Message is a single outgoing email with a plain-text and an HTML body.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when an SMTP host is configured and a logging
// mailer otherwise. Outside production the logging mailer includes the body.
func New(cfg *config.Config, logger logging.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn(context.Background(), "SMTP host not configured, emails will only be logged")
		return NewLogMailer(logger, !cfg.IsProduction())
	}
	return NewSMTPMailer(cfg)
}

type observedMailer struct {
	next    Mailer
	observe func(error)
}

// WithObserver reports the result of every Send to observe.
func WithObserver(m Mailer, observe func(error)) Mailer {
	return &observedMailer{next: m, observe: observe}
}

func (m *observedMailer) Send(ctx context.Context, msg Message) error {
	err := m.next.Send(ctx, msg)
	m.observe(err)
	return err
}
