package services

import (
	"context"
	"sync"
	"time"

	"whiteboard-service/internal/whiteboard"
	"whiteboard-service/pkg/logger"
)

// PresenceStore is the write side of the presence mirror. RedisService implements it.
type PresenceStore interface {
	MemberJoined(ctx context.Context, sessionID, connID string, record PresenceRecord) error
	MemberLeft(ctx context.Context, sessionID, connID string) error
	SessionClosed(ctx context.Context, sessionID string) error
	PublishSessionEvent(ctx context.Context, sessionID string, event interface{}) error
}

// PresenceMirror copies session membership into an external store and republishes every
// notification on the session's events channel. Observe never blocks: notifications go on
// a bounded queue drained by one goroutine, and are dropped when the queue is full.
type PresenceMirror struct {
	store   PresenceStore
	queue   chan whiteboard.Notification
	timeout time.Duration
	logger  *logger.Logger

	mu      sync.Mutex
	closed  bool
	dropped int64
	done    chan struct{}
}

func NewPresenceMirror(store PresenceStore, queueSize int, log *logger.Logger) *PresenceMirror {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PresenceMirror{
		store:   store,
		queue:   make(chan whiteboard.Notification, queueSize),
		timeout: 3 * time.Second,
		logger:  log,
		done:    make(chan struct{}),
	}
}

// Observe implements whiteboard.Observer
func (p *PresenceMirror) Observe(n whiteboard.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- n:
	default:
		p.dropped++
		p.logger.Warn("Presence queue full, dropping notification", "kind", n.Kind, "sessionID", n.SessionID, "dropped", p.dropped)
	}
}

// Dropped returns how many notifications were discarded because the queue was full
func (p *PresenceMirror) Dropped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Run drains the queue until Close is called and the queue is empty
func (p *PresenceMirror) Run() {
	defer close(p.done)
	for n := range p.queue {
		p.apply(n)
	}
}

// Close stops accepting notifications and waits up to timeout for Run to drain the queue
func (p *PresenceMirror) Close(timeout time.Duration) {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(timeout):
		p.logger.Warn("Timeout draining presence queue", "remaining", len(p.queue))
	}
}

func (p *PresenceMirror) apply(n whiteboard.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var err error
	switch n.Kind {
	case whiteboard.NotifyMemberJoined:
		err = p.store.MemberJoined(ctx, n.SessionID, n.ConnectionID, PresenceRecord{
			DisplayName: n.DisplayName,
			Color:       n.Color,
			JoinedAt:    n.At.Unix(),
		})
	case whiteboard.NotifyMemberLeft:
		err = p.store.MemberLeft(ctx, n.SessionID, n.ConnectionID)
	case whiteboard.NotifySessionClosed:
		err = p.store.SessionClosed(ctx, n.SessionID)
	}
	if err != nil {
		p.logger.Warn("Presence mirror update failed", "kind", n.Kind, "sessionID", n.SessionID, "error", err)
	}

	if err := p.store.PublishSessionEvent(ctx, n.SessionID, n); err != nil {
		p.logger.Debug("Presence event not published", "kind", n.Kind, "sessionID", n.SessionID, "error", err)
	}
}
