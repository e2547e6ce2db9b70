package tutor

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/makialabs/makia-oracle/backend/internal/service/speech"
	tutorservice "github.com/makialabs/makia-oracle/backend/internal/service/tutor"
)

// WebSocketHandler runs voice turns over a persistent connection: the client
// streams binary audio chunks, sends a JSON commit, and receives the turn
// result as a JSON event. One turn is in flight per connection at a time.
type WebSocketHandler struct {
	pipeline       *tutorservice.Service
	maxUploadBytes int64
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler creates the realtime voice handler.
func NewWebSocketHandler(pipeline *tutorservice.Service, maxUploadBytes int64) *WebSocketHandler {
	return &WebSocketHandler{
		pipeline:       pipeline,
		maxUploadBytes: maxUploadBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/ws/{sessionID}", h.handleConnection)
}

type wsClientMessage struct {
	Type      string `json:"type"` // "commit" or "reset"
	Professor string `json:"professor,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
}

type wsServerMessage struct {
	Type      string `json:"type"` // "result", "error", "status"
	Error     string `json:"error,omitempty"`
	Result    any    `json:"result,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *WebSocketHandler) handleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(h.maxUploadBytes)
	log.Printf("[websocket] voice connection opened for session=%s", sessionID)

	var buffer bytes.Buffer
	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] session=%s read error: %v", sessionID, err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if int64(buffer.Len()+len(payload)) > h.maxUploadBytes {
				h.send(conn, wsServerMessage{Type: "error", Error: "audio payload too large"})
				buffer.Reset()
				continue
			}
			buffer.Write(payload)

		case websocket.TextMessage:
			var msg wsClientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				h.send(conn, wsServerMessage{Type: "error", Error: "invalid control message"})
				continue
			}

			switch msg.Type {
			case "reset":
				buffer.Reset()
				h.send(conn, wsServerMessage{Type: "status"})
			case "commit":
				h.runTurn(r, conn, &buffer, msg, sessionID)
			default:
				h.send(conn, wsServerMessage{Type: "error", Error: "unknown message type"})
			}
		}
	}
}

func (h *WebSocketHandler) runTurn(r *http.Request, conn *websocket.Conn, buffer *bytes.Buffer, msg wsClientMessage, sessionID string) {
	defer buffer.Reset()

	profileID := msg.Professor
	if profileID == "" {
		profileID = defaultProfileID
	}

	result, err := h.pipeline.VoiceTurn(r.Context(), buffer.Bytes(), msg.Encoding, profileID, sessionID)
	if err != nil {
		h.send(conn, wsServerMessage{Type: "error", Error: turnErrorMessage(err)})
		return
	}

	h.send(conn, wsServerMessage{Type: "result", Result: result})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg wsServerMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}

func turnErrorMessage(err error) string {
	var turnErr *tutorservice.TurnError
	if errors.As(err, &turnErr) {
		if errors.Is(err, speech.ErrTranscription) || errors.Is(err, speech.ErrSynthesis) {
			return "speech capability unavailable, please retry"
		}
		return turnErr.Err.Error()
	}
	return "internal error"
}
