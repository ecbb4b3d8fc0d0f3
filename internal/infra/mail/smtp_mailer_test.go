package mail

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"estate/config"
	"estate/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	body, err := RenderTemplate("verify_email", map[string]any{
		"Name":  "Alice",
		"Token": "abc-123",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Hello Alice,")
	assert.Contains(t, body, "abc-123")

	body, err = RenderTemplate("agent_welcome", map[string]any{
		"Name":    "Bob",
		"AgentID": "AG0007",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "AG0007")
}

func TestRenderTemplate_Unknown(t *testing.T) {
	_, err := RenderTemplate("no_such_template", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mail template")
}

func TestSMTPMailer_NoopWithoutHost(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := NewSMTPMailer(&config.Config{}, logger)

	// No SMTP host configured: sending succeeds without a relay.
	err := mailer.Send(context.Background(), service.Mail{
		To:       "someone@example.com",
		Subject:  "Hi",
		Template: "reset_password",
		Data:     map[string]any{"Name": "Carol", "Token": "t-1"},
	})
	assert.NoError(t, err)
}

func TestSMTPMailer_NoopStillValidatesTemplate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := NewSMTPMailer(&config.Config{}, logger)

	err := mailer.Send(context.Background(), service.Mail{
		To:       "someone@example.com",
		Template: "bogus",
	})
	assert.Error(t, err)
}
