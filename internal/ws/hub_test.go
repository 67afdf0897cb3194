package ws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionStore records connected flags and logged messages
type fakeSessionStore struct {
	mu        sync.Mutex
	connected map[string]bool
	messages  map[string][]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		connected: make(map[string]bool),
		messages:  make(map[string][]string),
	}
}

func (s *fakeSessionStore) UpsertSession(ctx context.Context, sessionID string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.connected[sessionID]; !ok {
		s.connected[sessionID] = false
	}
	return nil
}

func (s *fakeSessionStore) SetSessionConnected(ctx context.Context, sessionID string, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected[sessionID] = connected
	return nil
}

func (s *fakeSessionStore) AppendSessionMessage(ctx context.Context, sessionID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[sessionID] = append(s.messages[sessionID], message)
	return nil
}

func (s *fakeSessionStore) isConnected(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected[sessionID]
}

// fakeConn captures written payloads and feeds reads from a channel
type fakeConn struct {
	mu       sync.Mutex
	written  []interface{}
	incoming chan []byte
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{incoming: make(chan []byte, 8)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	msg, ok := <-c.incoming
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, msg, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.incoming)
	}
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]models.Notification, 0, len(c.written))
	for _, v := range c.written {
		if n, ok := v.(models.Notification); ok {
			result = append(result, n)
		}
	}
	return result
}

func TestRegisterFlipsDurableConnectedFlag(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)
	conn := newFakeConn()

	hub.Register(context.Background(), "s1", 1, conn)
	assert.True(t, store.isConnected("s1"))
	assert.Equal(t, []string{"s1"}, hub.ConnectedSessionIDs())

	hub.Unregister(context.Background(), "s1")
	assert.False(t, store.isConnected("s1"))
	assert.Empty(t, hub.ConnectedSessionIDs())
}

func TestRegisterReplacesStaleConnection(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)
	stale := newFakeConn()
	fresh := newFakeConn()

	hub.Register(context.Background(), "s1", 1, stale)
	hub.Register(context.Background(), "s1", 1, fresh)

	assert.True(t, stale.isClosed())
	hub.SendToSession("s1", models.Notification{Type: "message", Message: "hi"})
	assert.Empty(t, stale.notifications())
	require.Len(t, fresh.notifications(), 1)
	assert.Equal(t, "hi", fresh.notifications()[0].Message)
}

func TestSendToUserReachesOnlyThatUsersSessions(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)
	anaPhone := newFakeConn()
	anaDesk := newFakeConn()
	bob := newFakeConn()

	hub.Register(context.Background(), "ana-phone", 1, anaPhone)
	hub.Register(context.Background(), "ana-desk", 1, anaDesk)
	hub.Register(context.Background(), "bob-desk", 2, bob)

	hub.SendToUser(1, models.Notification{Type: "message", Message: "ping"})

	require.Len(t, anaPhone.notifications(), 1)
	require.Len(t, anaDesk.notifications(), 1)
	assert.Empty(t, bob.notifications())
}

func TestSendToSessionDropsWhenNotLive(t *testing.T) {
	hub := NewHub(newFakeSessionStore())

	// Must not panic or block; delivery is fire-and-forget.
	hub.SendToSession("ghost", models.Notification{Type: "message", Message: "hi"})
}

func TestBroadcastReachesEveryLiveSession(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)
	conns := []*fakeConn{newFakeConn(), newFakeConn(), newFakeConn()}

	hub.Register(context.Background(), "s1", 1, conns[0])
	hub.Register(context.Background(), "s2", 2, conns[1])
	hub.Register(context.Background(), "s3", 3, conns[2])

	hub.Broadcast(models.Notification{Type: "notification", ActionName: models.ActionRefreshHomePage})

	for _, conn := range conns {
		require.Len(t, conn.notifications(), 1)
		assert.Equal(t, models.ActionRefreshHomePage, conn.notifications()[0].ActionName)
	}
}

func TestCloseUserSessionsDisconnectsAll(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)
	phone := newFakeConn()
	desk := newFakeConn()

	hub.Register(context.Background(), "ana-phone", 1, phone)
	hub.Register(context.Background(), "ana-desk", 1, desk)

	hub.CloseUserSessions(context.Background(), 1)

	assert.True(t, phone.isClosed())
	assert.True(t, desk.isClosed())
	assert.False(t, store.isConnected("ana-phone"))
	assert.False(t, store.isConnected("ana-desk"))
	assert.Empty(t, hub.ConnectedSessionIDs())
}

func TestEnsureSessionAllocatesWhenMissing(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)

	sessionID, allocated, err := hub.EnsureSession(context.Background(), "", 1)
	require.NoError(t, err)
	assert.True(t, allocated)
	assert.NotEmpty(t, sessionID)

	same, allocated, err := hub.EnsureSession(context.Background(), sessionID, 1)
	require.NoError(t, err)
	assert.False(t, allocated)
	assert.Equal(t, sessionID, same)
}

func TestServeEchoesAndLogsMessages(t *testing.T) {
	store := newFakeSessionStore()
	hub := NewHub(store)
	conn := newFakeConn()
	conn.incoming <- []byte("hello")

	done := make(chan struct{})
	go func() {
		hub.Serve(context.Background(), "s1", 1, conn, false)
		close(done)
	}()

	// Closing the connection ends the read loop after the queued
	// message is consumed.
	require.Eventually(t, func() bool {
		return len(conn.notifications()) > 0
	}, time.Second, 5*time.Millisecond)
	conn.Close()
	<-done

	store.mu.Lock()
	messages := store.messages["s1"]
	store.mu.Unlock()
	require.Equal(t, []string{"hello"}, messages)

	echoes := conn.notifications()
	require.NotEmpty(t, echoes)
	assert.Equal(t, "Message received: hello", echoes[0].Message)
	assert.False(t, store.isConnected("s1"))
}
