package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// serveWebSocket authenticates and upgrades a live connection. The
// credential arrives as a query parameter because browsers cannot set
// headers on a WebSocket handshake; an optional sessionId parameter
// requests continuity with a previous connection.
func (h *Handler) serveWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
		return
	}
	principal, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
		return
	}

	sessionID, allocated, err := h.hub.EnsureSession(c.Request.Context(), c.Query("sessionId"), principal.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	h.hub.Serve(c.Request.Context(), sessionID, principal.UserID, conn, allocated)
}
