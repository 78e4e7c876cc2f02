package mailer

import (
	"context"
	"log/slog"
)

// LogMailer writes emails to the log instead of sending them. Meant for
// development.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, toEmail, toName, subject, text string) error {
	m.log.InfoContext(ctx, "[DEV MAIL] email not sent",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"body", text,
	)
	return nil
}
