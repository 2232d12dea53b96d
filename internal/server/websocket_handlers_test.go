package server

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWebSocket(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/process"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func TestWebSocketProcessImage(t *testing.T) {
	s, err := newThresholdServer()
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	conn := dialWebSocket(t, s)

	payload := documentPNG(400, 300, image.Rect(60, 50, 340, 250))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, payload))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp WebSocketProcessResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "process_response", resp.Type)
	assert.True(t, resp.Success)
	assert.Greater(t, resp.DurationSeconds, 0.0)

	decoded, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(strings.NewReader(string(decoded)))
	require.NoError(t, err)
	assert.InDelta(t, 280, cfg.Width, 45)
	assert.InDelta(t, 200, cfg.Height, 35)
}

func TestWebSocketProcessInvalidImage(t *testing.T) {
	s, err := newThresholdServer()
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	conn := dialWebSocket(t, s)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("not an image")))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp WebSocketProcessResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "process_response", resp.Type)
	assert.False(t, resp.Success)
	assert.Equal(t, "decode", resp.ErrorKind)
}

func TestWebSocketRejectsTextMessage(t *testing.T) {
	s := newMockServer(&mockProcessor{result: successResult()})

	conn := dialWebSocket(t, s)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"hello":"world"}`)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp WebSocketProcessResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "error", resp.Type)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "binary image message")
}

func TestWebSocketPayloadTooLarge(t *testing.T) {
	s := newMockServer(&mockProcessor{result: successResult()})
	s.maxUploadMB = 1

	conn := dialWebSocket(t, s)

	payload := make([]byte, 2*1024*1024)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, payload))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp WebSocketProcessResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "payload_too_large", resp.ErrorKind)
}
