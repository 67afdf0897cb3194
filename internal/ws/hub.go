package ws

import (
	"context"
	"sync"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// SessionStore persists the durable session records backing the hub
type SessionStore interface {
	UpsertSession(ctx context.Context, sessionID string, userID int64) error
	SetSessionConnected(ctx context.Context, sessionID string, connected bool) error
	AppendSessionMessage(ctx context.Context, sessionID, message string) error
}

// Conn is the subset of a websocket connection the hub writes to
type Conn interface {
	WriteJSON(v interface{}) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type client struct {
	sessionID string
	userID    int64
	conn      Conn

	// serializes writes; gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

func (c *client) send(n models.Notification) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(n)
}

// Hub owns the live connections and fans notifications out to them.
// Constructed once at process start and passed to anything that emits
// events. Every send is fire-and-forget: failures are logged, never
// surfaced to the caller.
type Hub struct {
	store  SessionStore
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*client
	byUser   map[int64]map[string]*client
}

// NewHub creates an empty hub backed by the given session store
func NewHub(store SessionStore) *Hub {
	return &Hub{
		store:    store,
		logger:   util.GetLogger(),
		sessions: make(map[string]*client),
		byUser:   make(map[int64]map[string]*client),
	}
}

// Register binds a live connection to its session and user, marking
// the durable record connected
func (h *Hub) Register(ctx context.Context, sessionID string, userID int64, conn Conn) {
	c := &client{sessionID: sessionID, userID: userID, conn: conn}

	h.mu.Lock()
	if old, ok := h.sessions[sessionID]; ok {
		_ = old.conn.Close()
		h.detachLocked(old)
	}
	h.sessions[sessionID] = c
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[string]*client)
	}
	h.byUser[userID][sessionID] = c
	h.mu.Unlock()

	util.LiveConnections.Inc()

	if err := h.store.SetSessionConnected(ctx, sessionID, true); err != nil {
		h.logger.Error("Failed to mark session connected",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Unregister drops the live connection and marks the durable record
// disconnected. The record itself is retained.
func (h *Hub) Unregister(ctx context.Context, sessionID string) {
	h.mu.Lock()
	c, ok := h.sessions[sessionID]
	if ok {
		h.detachLocked(c)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	util.LiveConnections.Dec()

	if err := h.store.SetSessionConnected(ctx, sessionID, false); err != nil {
		h.logger.Error("Failed to mark session disconnected",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (h *Hub) detachLocked(c *client) {
	delete(h.sessions, c.sessionID)
	if userSessions, ok := h.byUser[c.userID]; ok {
		delete(userSessions, c.sessionID)
		if len(userSessions) == 0 {
			delete(h.byUser, c.userID)
		}
	}
}

// SendToSession delivers a notification to one live session
func (h *Hub) SendToSession(sessionID string, n models.Notification) {
	h.mu.RLock()
	c, ok := h.sessions[sessionID]
	h.mu.RUnlock()

	if !ok {
		util.NotificationsDroppedTotal.WithLabelValues("session_not_live").Inc()
		h.logger.Info("Session is not connected, dropping notification",
			zap.String("session_id", sessionID), zap.String("action", n.ActionName))
		return
	}

	if err := c.send(n); err != nil {
		util.NotificationsDroppedTotal.WithLabelValues("write_failed").Inc()
		h.logger.Warn("Failed to send notification to session",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	util.NotificationsSentTotal.WithLabelValues("session").Inc()
}

// SendToUser delivers a notification to every live session of a user
func (h *Hub) SendToUser(userID int64, n models.Notification) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.byUser[userID]))
	for _, c := range h.byUser[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		util.NotificationsDroppedTotal.WithLabelValues("user_not_live").Inc()
		h.logger.Info("User has no connected sessions, dropping notification",
			zap.Int64("user_id", userID), zap.String("action", n.ActionName))
		return
	}

	for _, c := range targets {
		if err := c.send(n); err != nil {
			util.NotificationsDroppedTotal.WithLabelValues("write_failed").Inc()
			h.logger.Warn("Failed to send notification to user session",
				zap.String("session_id", c.sessionID), zap.Error(err))
			continue
		}
		util.NotificationsSentTotal.WithLabelValues("user").Inc()
	}
}

// Broadcast delivers a notification to every live session
func (h *Hub) Broadcast(n models.Notification) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.sessions))
	for _, c := range h.sessions {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(n); err != nil {
			util.NotificationsDroppedTotal.WithLabelValues("write_failed").Inc()
			h.logger.Warn("Failed to broadcast notification",
				zap.String("session_id", c.sessionID), zap.Error(err))
			continue
		}
		util.NotificationsSentTotal.WithLabelValues("broadcast").Inc()
	}
}

// CloseSession force-closes one live session
func (h *Hub) CloseSession(ctx context.Context, sessionID string) {
	h.mu.RLock()
	c, ok := h.sessions[sessionID]
	h.mu.RUnlock()

	if ok {
		_ = c.conn.Close()
	}
	h.Unregister(ctx, sessionID)
}

// CloseUserSessions force-closes every live session of a user
func (h *Hub) CloseUserSessions(ctx context.Context, userID int64) {
	h.mu.RLock()
	sessionIDs := make([]string, 0, len(h.byUser[userID]))
	for id := range h.byUser[userID] {
		sessionIDs = append(sessionIDs, id)
	}
	h.mu.RUnlock()

	for _, id := range sessionIDs {
		h.CloseSession(ctx, id)
	}
}

// ConnectedSessionIDs reports the currently live session ids
func (h *Hub) ConnectedSessionIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	return ids
}
