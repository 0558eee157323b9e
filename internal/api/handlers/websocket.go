package handlers

import (
	"net/http"

	"github.com/dom/diary-service/internal/logger"
	"github.com/dom/diary-service/internal/service"
	"github.com/dom/diary-service/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// Handle upgrades an authenticated request to a websocket that receives the
// user's alerts. Browsers cannot set headers on websocket requests, so the
// access token comes in the token query parameter.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Token required")
		return
	}

	user, err := h.authService.ResolveCurrentUser(r.Context(), token)
	if err != nil {
		handleServiceError(w, "handlers.WebSocket", err)
		return
	}

	hello, err := websocket.NewMessage(websocket.MessageTypeConnected, websocket.ConnectedPayload{UserID: user.ID})
	if err != nil {
		handleServiceError(w, "handlers.WebSocket", err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("[handlers.WebSocket] upgrade failed", logger.Fields{"error": err})
		return
	}

	client := websocket.NewClient(h.hub, conn, user.ID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	client.Send(hello)
}
