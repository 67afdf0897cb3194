package worker

import (
	"context"
	"sync"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// Sender delivers notifications to live connections
type Sender interface {
	SendToSession(sessionID string, n models.Notification)
	SendToUser(userID int64, n models.Notification)
	Broadcast(n models.Notification)
}

type targetKind int

const (
	targetSession targetKind = iota
	targetUser
	targetBroadcast
)

type outbound struct {
	kind      targetKind
	sessionID string
	userID    int64
	payload   models.Notification
}

// Notifier decouples notification delivery from the request path: the
// triggering HTTP response returns independently of broadcast
// completion. Sends are enqueued onto a buffered channel consumed by a
// single dispatch goroutine; a full queue drops the notification.
type Notifier struct {
	sender Sender
	queue  chan outbound
	logger *zap.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// NewNotifier creates a notifier with the given queue capacity
func NewNotifier(sender Sender, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Notifier{
		sender: sender,
		queue:  make(chan outbound, queueSize),
		logger: util.GetLogger(),
		done:   make(chan struct{}),
	}
}

// Start runs the dispatch loop until the context is cancelled or Stop
// is called
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Notification dispatcher context cancelled, stopping")
			return ctx.Err()
		case <-n.done:
			return nil
		case out := <-n.queue:
			n.dispatch(out)
		}
	}
}

// Stop shuts the dispatch loop down
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() { close(n.done) })
}

func (n *Notifier) dispatch(out outbound) {
	switch out.kind {
	case targetSession:
		n.sender.SendToSession(out.sessionID, out.payload)
	case targetUser:
		n.sender.SendToUser(out.userID, out.payload)
	case targetBroadcast:
		n.sender.Broadcast(out.payload)
	}
}

// NotifySession enqueues a notification for one session
func (n *Notifier) NotifySession(sessionID string, payload models.Notification) {
	n.enqueue(outbound{kind: targetSession, sessionID: sessionID, payload: payload})
}

// NotifyUser enqueues a notification for all of a user's sessions
func (n *Notifier) NotifyUser(userID int64, payload models.Notification) {
	n.enqueue(outbound{kind: targetUser, userID: userID, payload: payload})
}

// NotifyAll enqueues a broadcast notification
func (n *Notifier) NotifyAll(payload models.Notification) {
	n.enqueue(outbound{kind: targetBroadcast, payload: payload})
}

func (n *Notifier) enqueue(out outbound) {
	select {
	case n.queue <- out:
	default:
		util.NotificationsDroppedTotal.WithLabelValues("queue_full").Inc()
		n.logger.Warn("Notification queue full, dropping",
			zap.String("action", out.payload.ActionName))
	}
}
