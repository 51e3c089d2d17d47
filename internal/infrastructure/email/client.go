// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/ettle-app/ettle-go/internal/infrastructure/email/templates"
	"github.com/ettle-app/ettle-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	SendLeadWelcomeEmail(toEmail, signupURL string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required for the email service")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
	}, nil
}

// SendLeadWelcomeEmail composes and sends the welcome email for a new lead.
func (c *ResendClient) SendLeadWelcomeEmail(toEmail, signupURL string) error {
	content := templates.GetWelcomeEmailContent(templates.WelcomeEmailProps{
		SignupURL: signupURL,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: "You're on the Ettle early access list",
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: "Welcome to Ettle",
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send welcome email via Resend: %w", err)
	}
	return nil
}
