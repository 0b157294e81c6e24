package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const matrixSendTimeout = 30 * time.Second

// MatrixConfig holds the Matrix room the digest is posted to
type MatrixConfig struct {
	Homeserver  string
	RoomID      string
	AccessToken string
}

// MatrixNotifier posts notifications as messages in a single Matrix room.
// The recipient is named in the message body.
type MatrixNotifier struct {
	logger     *zap.Logger
	config     MatrixConfig
	httpClient *http.Client
	newTxnID   func() string
}

func NewMatrixNotifier(logger *zap.Logger, config MatrixConfig) *MatrixNotifier {
	config.Homeserver = strings.TrimRight(config.Homeserver, "/")
	return &MatrixNotifier{
		logger:     logger,
		config:     config,
		httpClient: &http.Client{Timeout: matrixSendTimeout},
		newTxnID:   uuid.NewString,
	}
}

type matrixMessage struct {
	MsgType       string `json:"msgtype"`
	Body          string `json:"body"`
	Format        string `json:"format,omitempty"`
	FormattedBody string `json:"formatted_body,omitempty"`
}

// Send implements Notifier. htmlContent is posted as the formatted body when set.
func (m *MatrixNotifier) Send(ctx context.Context, to, subject, textContent, htmlContent string) error {
	msg := matrixMessage{
		MsgType: "m.text",
		Body:    fmt.Sprintf("[%s] %s\n%s", to, subject, textContent),
	}
	if htmlContent != "" {
		msg.Format = "org.matrix.custom.html"
		msg.FormattedBody = fmt.Sprintf("<b>%s</b> for %s<br>%s", html.EscapeString(subject), html.EscapeString(to), htmlContent)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode matrix message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/_matrix/client/v3/rooms/%s/send/m.room.message/%s",
		m.config.Homeserver, url.PathEscape(m.config.RoomID), url.PathEscape(m.newTxnID()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.config.AccessToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		m.logger.Error("Matrix homeserver returned error",
			zap.String("room_id", m.config.RoomID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_body", string(body)))
		return fmt.Errorf("matrix error: status %d", resp.StatusCode)
	}

	m.logger.Info("Matrix message sent",
		zap.String("room_id", m.config.RoomID),
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
