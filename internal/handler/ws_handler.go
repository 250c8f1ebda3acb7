package handler

import (
	"log/slog"
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/websocket"
)

type WSHandler struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func NewWSHandler(hub *websocket.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{hub: hub, upgrader: websocket.Upgrader(allowedOrigins)}
}

func (h *WSHandler) Events(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if err := h.hub.Serve(h.upgrader, w, r, actor.UserID); err != nil {
		slog.Warn("websocket upgrade failed", "user_id", actor.UserID, "error", err)
	}
}
