package mailer

import "context"

// Mailer sends a plain-text email to a single recipient.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, text string) error
}
