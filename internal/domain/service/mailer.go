package service

import "context"

// Mail is a single templated outbound message.
type Mail struct {
	To       string
	Subject  string
	Template string         // Template name, e.g. "verify_email".
	Data     map[string]any // Values substituted into the template body.
}

// Mailer defines the outbound email collaborator. Implementations may no-op
// when no SMTP host is configured; callers treat send failures as non-fatal
// and must not block the primary operation on them.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
