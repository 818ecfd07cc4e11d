package whiteboard

import (
	"sync"
	"time"

	"whiteboard-service/pkg/logger"
)

// Coordinator owns the registry and the session store. Every exported method holds one
// mutex across its mutation and the broadcasts it triggers, so events never interleave.
type Coordinator struct {
	mu sync.Mutex

	registry  *Registry
	store     *Store
	router    *Router
	metrics   *Metrics
	observers []Observer
	log       *logger.Logger
	now       func() time.Time
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithClock overrides the timestamp source used for strokes and sessions
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithLogger sets the coordinator logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// WithObserver registers an observer for accepted mutations
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithMetrics sets the broadcast metrics tracker
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator creates a coordinator with an empty registry and store
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		log: logger.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(100)
	}

	c.registry = NewRegistry(c.now)
	c.store = NewStore(c.now)
	c.router = NewRouter(c.registry, c.store, c.metrics, c.log)
	c.router.now = c.now
	return c
}

// Connect registers a live connection and greets it with its id and default name
func (c *Coordinator) Connect(connID string, sender Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn := c.registry.Register(connID, sender)
	c.router.Unicast(connID, Event{
		Type: EventConnected,
		Data: ConnectedData{ConnectionID: conn.ID, DisplayName: conn.DisplayName},
	})
	c.log.Debug("Connection registered", "connectionID", connID, "connections", c.registry.Len())
}

// Metrics returns the broadcast metrics tracker
func (c *Coordinator) Metrics() *Metrics {
	return c.metrics
}

// Sessions returns summaries of every live session
func (c *Coordinator) Sessions() []SessionSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Summaries()
}

// ConnectionCount returns the number of registered connections
func (c *Coordinator) ConnectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Len()
}

// Session returns a copy of the members and log of sessionID
func (c *Coordinator) Session(sessionID string) (members []Member, operations []Operation, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, exists := c.store.Get(sessionID)
	if !exists {
		return nil, nil, false
	}
	return sess.copyMembers(""), sess.copyOperations(), true
}

// ConnectionSession returns the session connID currently belongs to
func (c *Coordinator) ConnectionSession(connID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.registry.Get(connID)
	if !ok {
		return "", false
	}
	return conn.SessionID, true
}

func (c *Coordinator) notify(n Notification) {
	if n.At.IsZero() {
		n.At = c.now()
	}
	for _, o := range c.observers {
		o.Observe(n)
	}
}
