package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"
)

// GetSession retrieves a session by its durable session ID
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session,
		"SELECT * FROM ws_sessions WHERE session_id = $1", sessionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertSession creates the durable session record or re-binds an
// existing one to the authenticated user
func (s *Store) UpsertSession(ctx context.Context, sessionID string, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ws_sessions (session_id, user_id, connected)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (session_id)
		DO UPDATE SET user_id = EXCLUDED.user_id, updated_at = NOW()`,
		sessionID, userID)
	return err
}

// SetSessionConnected flips the live-connection flag. Rows are never
// deleted on disconnect so history survives reconnects.
func (s *Store) SetSessionConnected(ctx context.Context, sessionID string, connected bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE ws_sessions SET connected = $1, updated_at = NOW() WHERE session_id = $2",
		connected, sessionID)
	return err
}

// AppendSessionMessage appends a message to the session's exchange log
func (s *Store) AppendSessionMessage(ctx context.Context, sessionID, message string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE ws_sessions SET messages = array_append(messages, $1), updated_at = NOW() WHERE session_id = $2",
		message, sessionID)
	return err
}

// GetSessionsByUserID retrieves all sessions belonging to a user
func (s *Store) GetSessionsByUserID(ctx context.Context, userID int64) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.SelectContext(ctx, &sessions,
		"SELECT * FROM ws_sessions WHERE user_id = $1 ORDER BY created_at", userID)
	return sessions, err
}
