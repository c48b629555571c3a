package client

import (
	"context"
	"fmt"
	"log/slog"

	"storefront-backend/internal/config"
	"storefront-backend/internal/model"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers the order confirmation and returns the provider's message id.
type Mailer interface {
	SendConfirmation(ctx context.Context, email *model.ConfirmationEmail) (string, error)
}

func NewMailer(cfg *config.Email, logger *slog.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("EMAIL_SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return NewSendGridMailer(cfg), nil
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}

type sendGridMailerImpl struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(cfg *config.Email) Mailer {
	return &sendGridMailerImpl{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (m *sendGridMailerImpl) SendConfirmation(ctx context.Context, email *model.ConfirmationEmail) (string, error) {
	content, err := RenderConfirmation(email)
	if err != nil {
		return "", err
	}

	to := mail.NewEmail(email.CustomerName, email.CustomerEmail)
	message := mail.NewSingleEmail(m.from, content.Subject, to, content.Text, content.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid error %d: %s", resp.StatusCode, resp.Body)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

type logMailerImpl struct {
	logger *slog.Logger
}

// NewLogMailer writes confirmations to the log instead of sending them.
func NewLogMailer(logger *slog.Logger) Mailer {
	return &logMailerImpl{logger: logger}
}

func (m *logMailerImpl) SendConfirmation(ctx context.Context, email *model.ConfirmationEmail) (string, error) {
	content, err := RenderConfirmation(email)
	if err != nil {
		return "", err
	}

	messageID := "log-" + uuid.NewString()
	m.logger.InfoContext(ctx, "confirmation email",
		"message_id", messageID,
		"to", email.CustomerEmail,
		"subject", content.Subject,
		"order_number", email.OrderNumber,
	)
	return messageID, nil
}
