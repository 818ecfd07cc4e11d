package websocket

import (
	"context"
	"sync"
	"time"

	"whiteboard-service/internal/whiteboard"
	"whiteboard-service/pkg/logger"
)

// Options tunes per-client queues and heartbeats
type Options struct {
	SendBuffer     int
	MaxMessageSize int64
	PongWait       time.Duration

	// Time allowed to hand a registration or decoded command to Run
	HandoffWait time.Duration
}

// DefaultOptions mirrors the config defaults
func DefaultOptions() Options {
	return Options{
		SendBuffer:     256,
		MaxMessageSize: 64 * 1024,
		PongWait:       60 * time.Second,
		HandoffWait:    5 * time.Second,
	}
}

// Send pings to peer with this period. Must be less than PongWait.
func (o Options) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}

type clientCommand struct {
	client  *Client
	command whiteboard.Command
}

// Hub is the single dispatch goroutine in front of the coordinator. Registration, inbound
// commands and disconnects all pass through Run, one at a time.
type Hub struct {
	coordinator *whiteboard.Coordinator

	// Registered clients, owned by Run
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan *clientCommand

	opts Options

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	stopOnce sync.Once

	logger *logger.Logger
}

func NewHub(coordinator *whiteboard.Coordinator, log *logger.Logger, opts Options) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.Nop()
	}

	defaults := DefaultOptions()
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaults.SendBuffer
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaults.MaxMessageSize
	}
	if opts.PongWait <= 0 {
		opts.PongWait = defaults.PongWait
	}
	if opts.HandoffWait <= 0 {
		opts.HandoffWait = defaults.HandoffWait
	}

	return &Hub{
		coordinator: coordinator,
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbound:     make(chan *clientCommand, 64),
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		logger:      log,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.inbound:
			h.handleCommand(msg)

		case <-h.ctx.Done():
			h.logger.Info("WebSocket hub shutting down", "clients", len(h.clients))
			h.shutdown()
			return
		}
	}
}

// Stop cancels Run and waits up to timeout for it to release every client
func (h *Hub) Stop(timeout time.Duration) {
	h.stopOnce.Do(h.cancel)

	select {
	case <-h.done:
	case <-time.After(timeout):
		h.logger.Warn("Timeout waiting for hub to stop", "timeout", timeout)
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) registerClient(client *Client) {
	defer h.recoverEvent("register", client.id)

	h.clients[client.id] = client
	h.coordinator.Connect(client.id, client)
	h.logger.Info("Client registered", "clientID", client.id, "remoteAddr", client.remoteAddr)
}

func (h *Hub) unregisterClient(client *Client) {
	defer h.recoverEvent("unregister", client.id)

	if _, ok := h.clients[client.id]; !ok {
		return
	}
	delete(h.clients, client.id)
	h.coordinator.Disconnect(client.id)
	client.closeSend()
	h.logger.Info("Client unregistered", "clientID", client.id)
}

func (h *Hub) handleCommand(msg *clientCommand) {
	defer h.recoverEvent(msg.command.CommandName(), msg.client.id)

	if _, ok := h.clients[msg.client.id]; !ok {
		return
	}
	h.coordinator.Dispatch(msg.client.id, msg.command)
}

// recoverEvent keeps one failing event from taking the hub down
func (h *Hub) recoverEvent(event, clientID string) {
	if r := recover(); r != nil {
		h.logger.Error("Recovered panic while handling event", "event", event, "clientID", clientID, "panic", r)
	}
}

func (h *Hub) shutdown() {
	released := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		h.coordinator.Disconnect(id)
		client.closeSend()
		delete(h.clients, id)
		released = append(released, client)
	}
	for _, client := range released {
		client.waitForPumps(2 * time.Second)
	}
}
