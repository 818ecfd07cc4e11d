package whiteboard

import (
	"time"

	"whiteboard-service/pkg/logger"
)

// Router delivers events to the members of a session. Delivery is fire and forget: a
// failed send is counted and logged, never retried and never surfaced to the caller.
type Router struct {
	registry *Registry
	store    *Store
	metrics  *Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewRouter creates a router over the given registry and store
func NewRouter(registry *Registry, store *Store, metrics *Metrics, log *logger.Logger) *Router {
	if log == nil {
		log = logger.Nop()
	}
	return &Router{
		registry: registry,
		store:    store,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// BroadcastToSession sends event to every registered connection currently in sessionID,
// skipping excludeID when it is non-empty. It returns the number of successful deliveries.
func (r *Router) BroadcastToSession(sessionID string, event Event, excludeID string) int {
	sess, ok := r.store.Get(sessionID)
	if !ok {
		return 0
	}

	start := r.now()
	success, failure := 0, 0

	for _, member := range sess.Members {
		if excludeID != "" && member.ID == excludeID {
			continue
		}
		conn, ok := r.registry.Get(member.ID)
		if !ok || !conn.InSession(sessionID) {
			continue
		}
		if r.deliver(conn, event) {
			success++
		} else {
			failure++
		}
	}

	if r.metrics != nil {
		r.metrics.Record(BroadcastMetric{
			Event:        event.Type,
			SessionID:    sessionID,
			Duration:     time.Since(start),
			SuccessCount: success,
			FailureCount: failure,
			Timestamp:    r.now(),
		})
	}

	return success
}

// Unicast sends event to a single registered connection
func (r *Router) Unicast(connID string, event Event) bool {
	conn, ok := r.registry.Get(connID)
	if !ok {
		return false
	}
	return r.deliver(conn, event)
}

func (r *Router) deliver(conn *Connection, event Event) bool {
	if conn.sender == nil {
		return false
	}
	if err := conn.sender.Send(event); err != nil {
		r.log.Debug("Dropped event for connection", "connectionID", conn.ID, "event", event.Type.String(), "error", err)
		return false
	}
	return true
}
