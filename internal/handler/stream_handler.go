package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/spookygames/captain/internal/auth"
	"github.com/spookygames/captain/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	maxMsgSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler serves repeated planning requests over a single
// WebSocket connection, so a client driving several boards in sequence
// doesn't pay a new TCP/TLS handshake per request.
type StreamHandler struct {
	svc    *service.PlanService
	jwtMgr *auth.JWTManager
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(svc *service.PlanService, jwtMgr *auth.JWTManager) *StreamHandler {
	return &StreamHandler{svc: svc, jwtMgr: jwtMgr}
}

type streamMessage struct {
	RequestID string `json:"request_id,omitempty"`
	planRequest
}

type streamResponse struct {
	RequestID string   `json:"request_id,omitempty"`
	Actions   []string `json:"actions,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ServeWS handles GET /v1/plan/stream — upgrades to WebSocket. Auth is
// via ?token= query parameter since the WebSocket handshake carries no
// custom headers from browser clients.
func (h *StreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, `{"error":"missing token parameter"}`, http.StatusUnauthorized)
		return
	}
	if _, err := h.jwtMgr.ValidateToken(tokenStr); err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("plan stream upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMsgSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go h.pinger(conn, done)
	defer close(done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("plan stream unexpected close")
			}
			return
		}

		var msg streamMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.write(conn, streamResponse{Error: "invalid request body"})
			continue
		}

		resp := streamResponse{RequestID: msg.RequestID}
		b, side, err := decodeBoard(msg.planRequest)
		if err != nil {
			resp.Error = err.Error()
			h.write(conn, resp)
			continue
		}
		actions, err := h.svc.Plan(r.Context(), b, side)
		if err != nil {
			resp.Error = err.Error()
			h.write(conn, resp)
			continue
		}
		resp.Actions = actions
		h.write(conn, resp)
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, resp streamResponse) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(resp); err != nil {
		log.Warn().Err(err).Msg("plan stream write failed")
	}
}

func (h *StreamHandler) pinger(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
