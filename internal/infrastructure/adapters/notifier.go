package adapters

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Notifier delivers one message to one recipient
type Notifier interface {
	Send(ctx context.Context, to, subject, textContent, htmlContent string) error
}

// NotifierOptions carries the settings of every supported provider
type NotifierOptions struct {
	Email  EmailServiceConfig
	Matrix MatrixConfig
}

// NewNotifier builds the notifier for provider: "sendgrid" (or "email") or "matrix"
func NewNotifier(provider string, logger *zap.Logger, opts NotifierOptions) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "sendgrid", "email":
		return NewEmailService(logger, opts.Email), nil
	case "matrix":
		return NewMatrixNotifier(logger, opts.Matrix), nil
	default:
		return nil, fmt.Errorf("unknown notification provider %q", provider)
	}
}
