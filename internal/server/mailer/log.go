package mailer

import (
	"context"

	"github.com/rajat290/notekeeper/internal/logging"
)

// LogMailer writes messages to the log instead of sending them. Used when
// no SMTP server is configured. The body, which may carry a live reset
// link, is only logged when withBody is set.
type LogMailer struct {
	logger   logging.Logger
	withBody bool
}

func NewLogMailer(logger logging.Logger, withBody bool) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer"), withBody: withBody}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	args := []any{"to", msg.To, "subject", msg.Subject}
	if m.withBody {
		args = append(args, "text", msg.Text)
	}
	m.logger.Info(ctx, "email not sent, SMTP disabled", args...)
	return nil
}
