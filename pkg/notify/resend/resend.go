package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/duende/pkg/notify"
)

// Config holds Resend settings.
// Embed it in the app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME" envDefault:"duende"`
}

// Sender delivers notify emails through the Resend API.
type Sender struct {
	client *resend.Client
	from   string
}

// New creates a Sender.
func New(cfg Config) *Sender {
	from := cfg.SenderEmail
	if cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.SenderEmail)
	}
	return &Sender{client: resend.NewClient(cfg.APIKey), from: from}
}

// Send implements notify.Sender.
func (s *Sender) Send(ctx context.Context, email *notify.Email) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Tags:    []resend.Tag{{Name: "category", Value: "error_report"}},
	})
	if err != nil {
		return fmt.Errorf("resend: send email: %w", err)
	}
	return nil
}
