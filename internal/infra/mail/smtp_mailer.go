// Package mail implements the outbound email collaborator over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"text/template"

	"estate/config"
	"estate/internal/domain/service"

	"github.com/pkg/errors"
)

// Built-in message templates. Data keys are documented per template.
var templates = map[string]string{
	// Data: Name, Token
	"verify_email": "Hello {{.Name}},\n\n" +
		"Welcome to Estate. Please verify your email address with this code:\n\n" +
		"{{.Token}}\n\n" +
		"The code expires in 24 hours.\n",

	// Data: Name, Token
	"reset_password": "Hello {{.Name}},\n\n" +
		"A password reset was requested for your account. Your reset code:\n\n" +
		"{{.Token}}\n\n" +
		"If you did not request this, you can ignore this message.\n",

	// Data: Name, AgentID
	"agent_welcome": "Hello {{.Name}},\n\n" +
		"Your agent account has been created. Your agent ID is {{.AgentID}}.\n",
}

// smtpMailer sends templated mail through a plain SMTP relay. When no host is
// configured it degrades to a logging no-op, which is the expected mode in
// development environments without an SMTP relay.
type smtpMailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	mailer := &smtpMailer{logger: logger}
	if cfg.SMTP != nil {
		mailer.host = cfg.SMTP.Host
		mailer.port = cfg.SMTP.Port
		mailer.from = cfg.SMTP.From
		mailer.password = cfg.SMTP.Password
	}

	return mailer
}

// Send renders the named template and delivers the message. In no-op mode the
// rendered message is logged instead of sent.
func (m *smtpMailer) Send(ctx context.Context, mail service.Mail) error {
	body, err := RenderTemplate(mail.Template, mail.Data)
	if err != nil {
		return errors.Wrap(err, "failed to render mail template")
	}

	if m.host == "" {
		m.logger.Info("SMTP not configured, skipping mail send",
			slog.String("to", mail.To),
			slog.String("subject", mail.Subject),
			slog.String("template", mail.Template),
		)

		return nil
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, mail.To, mail.Subject, body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{mail.To}, []byte(message)); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	return nil
}

// RenderTemplate renders one of the built-in templates with the given data.
func RenderTemplate(name string, data map[string]any) (string, error) {
	raw, ok := templates[name]
	if !ok {
		return "", errors.Errorf("unknown mail template %q", name)
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %q", name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %q", name)
	}

	return sb.String(), nil
}
