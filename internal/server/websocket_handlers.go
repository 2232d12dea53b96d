package server

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// webSocketConnWriter is an interface for writing WebSocket messages.
type webSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketProcessResponse is the reply sent for each image message.
type WebSocketProcessResponse struct {
	Type            string  `json:"type"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
	ErrorKind       string  `json:"error_kind,omitempty"`
	Stage           string  `json:"stage,omitempty"`
	ImageBase64     string  `json:"image_base64,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// processWebSocketHandler handles WebSocket connections for streaming
// document extraction. Each binary message is one encoded image; each reply
// is a JSON result.
func (s *Server) processWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		switch messageType {
		case websocket.BinaryMessage:
			s.processWebSocketImage(conn, data)
		case websocket.TextMessage:
			s.sendWebSocketError(conn, "invalid_request", "Expected a binary image message")
		}
	}
}

// processWebSocketImage runs one image through the pipeline and replies.
func (s *Server) processWebSocketImage(conn webSocketConnWriter, data []byte) {
	if s.maxUploadMB > 0 && int64(len(data)) > s.maxUploadMB*1024*1024 {
		processRequestsTotal.WithLabelValues("websocket", "rejected").Inc()
		s.sendWebSocketError(conn, "payload_too_large", "Image exceeds upload size limit")
		return
	}
	uploadSizeBytes.Observe(float64(len(data)))

	pngData, res := s.processor.ProcessToPNG(data)
	processDuration.WithLabelValues("websocket").Observe(res.Elapsed.Seconds())

	if !res.Success {
		processRequestsTotal.WithLabelValues("websocket", "error").Inc()
		processFailuresTotal.WithLabelValues(string(res.Kind)).Inc()
		s.sendWebSocketResponse(conn, WebSocketProcessResponse{
			Type:            "process_response",
			Success:         false,
			Error:           res.Err(),
			ErrorKind:       string(res.Kind),
			Stage:           res.Stage,
			DurationSeconds: res.Elapsed.Seconds(),
		})
		return
	}

	processRequestsTotal.WithLabelValues("websocket", "success").Inc()
	s.sendWebSocketResponse(conn, WebSocketProcessResponse{
		Type:            "process_response",
		Success:         true,
		ImageBase64:     base64.StdEncoding.EncodeToString(pngData),
		DurationSeconds: res.Elapsed.Seconds(),
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn webSocketConnWriter, response WebSocketProcessResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn webSocketConnWriter, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketProcessResponse{
		Type:      "error",
		Success:   false,
		Error:     message,
		ErrorKind: errorType,
	})
}
