package whiteboard

import "time"

const defaultNamePrefix = "Guest-"

// Registry tracks every live connection by id. It is not safe for concurrent use on its
// own; the Coordinator serializes access.
type Registry struct {
	connections map[string]*Connection
	now         func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		connections: make(map[string]*Connection),
		now:         now,
	}
}

// DefaultDisplayName derives the display name used when a client supplies none
func DefaultDisplayName(connID string) string {
	short := connID
	if len(short) > 6 {
		short = short[:6]
	}
	return defaultNamePrefix + short
}

// Register creates a connection with no session. Registering a known id only replaces its
// sender.
func (r *Registry) Register(connID string, sender Sender) *Connection {
	if conn, exists := r.connections[connID]; exists {
		conn.sender = sender
		return conn
	}

	conn := &Connection{
		ID:          connID,
		DisplayName: DefaultDisplayName(connID),
		ConnectedAt: r.now(),
		sender:      sender,
	}
	r.connections[connID] = conn
	return conn
}

// Unregister removes a connection and reports the session it was last a member of
func (r *Registry) Unregister(connID string) (lastSessionID string, ok bool) {
	conn, exists := r.connections[connID]
	if !exists {
		return "", false
	}
	delete(r.connections, connID)
	return conn.SessionID, true
}

// Get returns the connection for connID
func (r *Registry) Get(connID string) (*Connection, bool) {
	conn, exists := r.connections[connID]
	return conn, exists
}

// Len returns the number of registered connections
func (r *Registry) Len() int {
	return len(r.connections)
}
