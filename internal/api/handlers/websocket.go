package handlers

import (
	"whiteboard-service/internal/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *websocket.Hub
	upgrader *gorilla.Upgrader
}

func NewWSHandler(hub *websocket.Hub, upgrader *gorilla.Upgrader) *WSHandler {
	return &WSHandler{hub: hub, upgrader: upgrader}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Upgrade to a WebSocket carrying whiteboard events. Each text frame holds one JSON envelope {type, data, timestamp}. Client types: join, stroke, cursor, undo, clear, leave. Server types: connected, session-state, member-joined, member-left, stroke, cursor, stroke-undone, canvas-cleared, error.
// @Tags websocket
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Failure 400 {object} map[string]interface{} "Bad request - not a WebSocket handshake"
// @Failure 429 {object} response.Body "Too many connection attempts"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	websocket.ServeWS(h.hub, h.upgrader, c.Writer, c.Request)
}
