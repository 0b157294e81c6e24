package adapters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestEmailService_MockMode(t *testing.T) {
	tests := []struct {
		name     string
		config   EmailServiceConfig
		wantMock bool
	}{
		{name: "development", config: EmailServiceConfig{APIKey: "SG.key", Environment: "development"}, wantMock: true},
		{name: "missing key", config: EmailServiceConfig{Environment: "production"}, wantMock: true},
		{name: "production", config: EmailServiceConfig{APIKey: "SG.key", Environment: "production"}, wantMock: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEmailService(zaptest.NewLogger(t), tt.config)
			assert.Equal(t, tt.wantMock, svc.MockMode())
		})
	}
}

func TestEmailService_SendInMockMode(t *testing.T) {
	svc := NewEmailService(zaptest.NewLogger(t), EmailServiceConfig{Environment: "development"})

	err := svc.Send(context.Background(), "me@example.com", "Digest", strings.Repeat("x", 500), "<p>x</p>")
	assert.NoError(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
}
