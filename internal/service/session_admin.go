package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// SessionDirectory exposes the durable session records
type SessionDirectory interface {
	GetSessionsByUserID(ctx context.Context, userID int64) ([]models.Session, error)
}

// ConnectionController force-closes live connections
type ConnectionController interface {
	CloseSession(ctx context.Context, sessionID string)
	CloseUserSessions(ctx context.Context, userID int64)
}

// SessionView is one durable session record in the admin listing
type SessionView struct {
	SessionID string   `json:"sessionId"`
	Connected bool     `json:"connected"`
	Messages  []string `json:"messages"`
}

// UserSessionsView pairs a user with all of their session records
type UserSessionsView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Sessions []SessionView `json:"sessions"`
}

// SessionAdminService backs the master-only session administration
// surface: inspecting sessions, messaging them and cutting them off.
type SessionAdminService struct {
	users    UserStore
	sessions SessionDirectory
	conns    ConnectionController
	notifier Notifier
	logger   *zap.Logger
}

// NewSessionAdminService creates a new session admin service
func NewSessionAdminService(
	users UserStore,
	sessions SessionDirectory,
	conns ConnectionController,
	notifier Notifier,
) *SessionAdminService {
	return &SessionAdminService{
		users:    users,
		sessions: sessions,
		conns:    conns,
		notifier: notifier,
		logger:   util.GetLogger(),
	}
}

// UsersSessions lists every user with all of their session records,
// connected or not
func (s *SessionAdminService) UsersSessions(ctx context.Context) ([]UserSessionsView, error) {
	ctx, span := util.StartSpan(ctx, "service.UsersSessions")
	defer span.End()

	users, err := s.users.GetUsers(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := make([]UserSessionsView, 0, len(users))
	for _, user := range users {
		sessions, err := s.sessions.GetSessionsByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		views := make([]SessionView, 0, len(sessions))
		for _, session := range sessions {
			views = append(views, SessionView{
				SessionID: session.SessionID,
				Connected: session.Connected,
				Messages:  session.Messages,
			})
		}
		result = append(result, UserSessionsView{
			ID:       user.ID,
			Name:     user.Name,
			Sessions: views,
		})
	}
	return result, nil
}

// MessageSession queues a text message for one session
func (s *SessionAdminService) MessageSession(sessionID, message string) {
	s.notifier.NotifySession(sessionID, models.Notification{Type: "message", Message: message})
}

// MessageUser queues a text message for all of a user's sessions
func (s *SessionAdminService) MessageUser(userID int64, message string) {
	s.notifier.NotifyUser(userID, models.Notification{Type: "message", Message: message})
}

// Broadcast queues a text message for every live session
func (s *SessionAdminService) Broadcast(message string) {
	s.notifier.NotifyAll(models.Notification{Type: "message", Message: message})
}

// CloseSession force-closes one live connection
func (s *SessionAdminService) CloseSession(ctx context.Context, sessionID string) {
	s.logger.Info("Closing session", zap.String("session_id", sessionID))
	s.conns.CloseSession(ctx, sessionID)
}

// CloseUserSessions force-closes all of a user's live connections
func (s *SessionAdminService) CloseUserSessions(ctx context.Context, userID int64) {
	s.logger.Info("Closing user sessions", zap.Int64("user_id", userID))
	s.conns.CloseUserSessions(ctx, userID)
}
