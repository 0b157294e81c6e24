package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailServiceConfig holds email service configuration
type EmailServiceConfig struct {
	APIKey      string
	FromEmail   string
	FromName    string
	Environment string // "development", "staging", "production"
}

// EmailService delivers notification emails through SendGrid
type EmailService struct {
	logger   *zap.Logger
	config   EmailServiceConfig
	client   *sendgrid.Client
	mockMode bool // Set to true in development/testing
}

// NewEmailService creates a new email service
func NewEmailService(logger *zap.Logger, config EmailServiceConfig) *EmailService {
	mockMode := config.Environment == "development" || config.APIKey == ""

	var client *sendgrid.Client
	if !mockMode {
		client = sendgrid.NewSendClient(config.APIKey)
	}

	return &EmailService{
		logger:   logger,
		config:   config,
		client:   client,
		mockMode: mockMode,
	}
}

// MockMode reports whether messages are only logged
func (e *EmailService) MockMode() bool {
	return e.mockMode
}

// Send delivers one message to a single recipient
func (e *EmailService) Send(ctx context.Context, to, subject, textContent, htmlContent string) error {
	if e.mockMode {
		e.logger.Info("Email sent successfully (MOCK)",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("content_preview", preview(textContent, 100)))
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, toEmail, textContent, htmlContent)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	response, err := e.client.SendWithContext(ctxWithTimeout, message)
	if err != nil {
		e.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		e.logger.Error("Email service returned error",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Int("status_code", response.StatusCode),
			zap.String("response_body", response.Body))
		return fmt.Errorf("email service error: status %d, body: %s", response.StatusCode, response.Body)
	}

	e.logger.Info("Email sent successfully",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("status_code", response.StatusCode))
	return nil
}

func preview(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit] + "..."
}
