package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/events"
)

func newTestHandler(hub *Hub, origins ...string) *Handler {
	cfg := config.Default().WebSocket
	return NewHandler(hub, cfg, origins, discardLogger(), apierrors.NewErrorHandler(discardLogger(), false))
}

func readMessage(t *testing.T, conn *websocket.Conn) events.WebSocketMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg events.WebSocketMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandlerDeliversReloadNotifications(t *testing.T) {
	hub := NewHub(discardLogger(), nil)
	hub.Start()

	srv := httptest.NewServer(newTestHandler(hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	assert.Equal(t, events.MessageTypeConnect, readMessage(t, conn).Type)

	hub.Publish(events.NewMessage(events.MessageTypeDatasetReloaded, events.DatasetReloaded{Rows: 6}))
	assert.Equal(t, events.MessageTypeDatasetReloaded, readMessage(t, conn).Type)

	hub.Stop()

	// The server closes the socket when the hub shuts down
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestHandlerRejectsPlainRequests(t *testing.T) {
	hub := NewHub(discardLogger(), nil)
	hub.Start()
	defer hub.Stop()

	rec := httptest.NewRecorder()
	newTestHandler(hub).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "WEBSOCKET_UPGRADE_FAILED", body["error_code"])
	assert.Equal(t, apierrors.TypeWebSocketUpgrde, body["type"])
}

func TestHandlerUnavailableWhenHubStopped(t *testing.T) {
	hub := NewHub(discardLogger(), nil)

	rec := httptest.NewRecorder()
	newTestHandler(hub).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVICE_UNAVAILABLE")
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		host    string
		want    bool
	}{
		{"no origin header", nil, "", "localhost:8080", true},
		{"same host", nil, "http://localhost:8080", "localhost:8080", true},
		{"listed origin", []string{"http://dash.example.com/"}, "http://dash.example.com", "10.0.0.1:8080", true},
		{"unlisted origin", []string{"http://dash.example.com"}, "http://evil.example.com", "localhost:8080", false},
		{"wildcard", []string{"*"}, "http://anything.example.com", "localhost:8080", true},
		{"malformed origin", nil, "://bad", "localhost:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(r))
		})
	}
}
