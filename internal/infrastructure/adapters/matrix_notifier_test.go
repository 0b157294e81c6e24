package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMatrixNotifier_Send(t *testing.T) {
	var got matrixMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/_matrix/client/v3/rooms/!room:example.org/send/m.room.message/txn-1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"event_id":"$abc"}`))
	}))
	defer server.Close()

	notifier := NewMatrixNotifier(zaptest.NewLogger(t), MatrixConfig{
		Homeserver:  server.URL + "/",
		RoomID:      "!room:example.org",
		AccessToken: "secret",
	})
	notifier.newTxnID = func() string { return "txn-1" }

	err := notifier.Send(context.Background(), "me@example.com", "Daily <digest>", "total 605 USD", "<p>total 605 USD</p>")

	require.NoError(t, err)
	assert.Equal(t, "m.text", got.MsgType)
	assert.Equal(t, "[me@example.com] Daily <digest>\ntotal 605 USD", got.Body)
	assert.Equal(t, "org.matrix.custom.html", got.Format)
	assert.Contains(t, got.FormattedBody, "Daily &lt;digest&gt;")
	assert.Contains(t, got.FormattedBody, "<p>total 605 USD</p>")
}

func TestMatrixNotifier_SendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errcode":"M_FORBIDDEN"}`))
	}))
	defer server.Close()

	notifier := NewMatrixNotifier(zaptest.NewLogger(t), MatrixConfig{Homeserver: server.URL, RoomID: "!room:example.org"})

	err := notifier.Send(context.Background(), "me@example.com", "Digest", "text", "")
	assert.ErrorContains(t, err, "status 403")
}

func TestNewNotifier(t *testing.T) {
	tests := []struct {
		provider string
		want     interface{}
		wantErr  bool
	}{
		{provider: "", want: &EmailService{}},
		{provider: "sendgrid", want: &EmailService{}},
		{provider: "Matrix", want: &MatrixNotifier{}},
		{provider: "pager", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			notifier, err := NewNotifier(tt.provider, zaptest.NewLogger(t), NotifierOptions{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, notifier)
		})
	}
}
