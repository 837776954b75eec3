package handlers

import (
	"log/slog"

	"reelchat-service/internal/websocket"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *websocket.Hub
}

func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRoutes maps HTTP methods to handler functions
func (h *WSHandler) RegisterRoutes(r *gin.RouterGroup) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("", h.HandleWebSocket)
	}
}

// HandleWebSocket upgrades the request and hands the connection to the hub.
// Identity is established later over the socket itself, via the register and
// user-connected messages.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	client, err := websocket.ServeWS(h.hub, c.Writer, c.Request)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		slog.Error("WebSocket upgrade failed", "remote", c.ClientIP(), "error", err)
		return
	}

	slog.Info("WebSocket connection established", "clientID", client.GetID(), "remote", c.ClientIP())
}
