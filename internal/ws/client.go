package ws

import (
	"context"
	"fmt"

	"pos-service/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EnsureSession resolves the durable session for a connecting client.
// A client without a prior session id is issued a fresh one; the
// caller announces it in-band after the upgrade.
func (h *Hub) EnsureSession(ctx context.Context, sessionID string, userID int64) (string, bool, error) {
	allocated := false
	if sessionID == "" {
		sessionID = uuid.New().String()
		allocated = true
	}

	if err := h.store.UpsertSession(ctx, sessionID, userID); err != nil {
		return "", false, fmt.Errorf("failed to upsert session: %w", err)
	}
	return sessionID, allocated, nil
}

// Serve registers the connection and runs its read loop until the
// client disconnects. Only this loop mutates the connection's own
// live state. Blocks; callers run it per connection.
func (h *Hub) Serve(ctx context.Context, sessionID string, userID int64, conn Conn, announceSessionID bool) {
	h.Register(ctx, sessionID, userID, conn)
	defer h.Unregister(ctx, sessionID)

	h.logger.Info("WebSocket connection established",
		zap.String("session_id", sessionID), zap.Int64("user_id", userID))

	if announceSessionID {
		if err := h.SendSessionID(sessionID); err != nil {
			h.logger.Warn("Failed to announce session id",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error",
					zap.String("session_id", sessionID), zap.Error(err))
			}
			break
		}

		if err := h.store.AppendSessionMessage(ctx, sessionID, string(message)); err != nil {
			h.logger.Error("Failed to log session message",
				zap.String("session_id", sessionID), zap.Error(err))
		}

		h.SendToSession(sessionID, models.Notification{
			Type:    "echo",
			Message: fmt.Sprintf("Message received: %s", message),
		})
	}

	h.logger.Info("WebSocket connection closed", zap.String("session_id", sessionID))
}

// SendSessionID informs the client of its allocated session id over
// the same channel, as {type: "sessionId", sessionId}
func (h *Hub) SendSessionID(sessionID string) error {
	h.mu.RLock()
	c, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session %s not connected", sessionID)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}{Type: "sessionId", SessionID: sessionID})
}
