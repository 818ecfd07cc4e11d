package websocket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"whiteboard-service/internal/whiteboard"

	"github.com/gorilla/websocket"
)

var ErrClientDisconnected = errors.New("client disconnected")

// Time allowed to write a message to the peer
const writeWait = 10 * time.Second

// Conn is the subset of *websocket.Conn the pumps use
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one WebSocket connection. It implements whiteboard.Sender: Send encodes and
// enqueues without blocking, and writePump owns all writes to the socket.
type Client struct {
	id         string
	remoteAddr string
	hub        *Hub
	conn       Conn
	send       chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	closed int32 // atomic flag set once the client starts shutting down

	sendMu     sync.Mutex
	sendClosed bool

	wg sync.WaitGroup
}

func newClient(hub *Hub, conn Conn, id, remoteAddr string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:         id,
		remoteAddr: remoteAddr,
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, hub.opts.SendBuffer),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client as closed and cancels the context
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		c.hub.logger.Debug("Client marked as closed", "clientID", c.id)
	}
}

// closeSend closes the send queue once; writePump then says goodbye and exits
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// Send enqueues event for delivery. A full queue means the peer cannot keep up, so the
// client is shut down and the event dropped.
func (c *Client) Send(event whiteboard.Event) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	data, err := EncodeEvent(event, time.Now())
	if err != nil {
		return err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.hub.logger.Warn("Send buffer full, closing client", "clientID", c.id)
		c.sendClosed = true
		close(c.send)
		return ErrClientDisconnected
	}
}

func (c *Client) sendError(err error) {
	if sendErr := c.Send(errorEventFor(err)); sendErr != nil {
		c.hub.logger.Debug("Failed to report error to client", "clientID", c.id, "error", sendErr)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.wg.Done()
		c.close()

		select {
		case c.hub.unregister <- c:
			c.hub.logger.Debug("Client unregister request sent", "clientID", c.id)
		case <-c.hub.ctx.Done():
		case <-time.After(c.hub.opts.HandoffWait):
			c.hub.logger.Warn("Timeout sending unregister request", "clientID", c.id)
		}

		if err := c.conn.Close(); err != nil {
			c.hub.logger.Debug("Error closing connection", "clientID", c.id, "error", err)
		}
	}()

	pongWait := c.hub.opts.PongWait
	c.conn.SetReadLimit(c.hub.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket error", "clientID", c.id, "error", err)
			} else {
				c.hub.logger.Debug("WebSocket connection closed", "clientID", c.id, "error", err)
			}
			return
		}

		cmd, err := DecodeCommand(raw)
		if err != nil {
			c.hub.logger.Debug("Rejected message", "clientID", c.id, "error", err)
			c.sendError(err)
			continue
		}

		select {
		case c.hub.inbound <- &clientCommand{client: c, command: cmd}:
		case <-time.After(c.hub.opts.HandoffWait):
			// A command is never dropped on a live connection; the peer rejoins to resync
			c.hub.logger.Warn("Timeout sending command to hub, closing client", "clientID", c.id, "command", cmd.CommandName())
			return
		case <-c.hub.ctx.Done():
			return
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump writes one envelope per frame, in enqueue order, and keeps the peer alive with
// pings. Exiting closes the socket so readPump unblocks.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.opts.pingPeriod())
	defer func() {
		c.wg.Done()
		ticker.Stop()
		c.close()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug("Error writing message", "clientID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.logger.Debug("Error sending ping", "clientID", c.id, "error", err)
				return
			}

		case <-c.ctx.Done():
			c.drain()
			return
		}
	}
}

// drain flushes whatever is still queued after the client was told to stop
func (c *Client) drain() {
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Client) start() {
	c.wg.Add(2)
	go c.writePump()
	go c.readPump()
}

// waitForPumps waits for both pumps to finish with timeout
func (c *Client) waitForPumps(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		c.hub.logger.Warn("Timeout waiting for client goroutines", "clientID", c.id, "timeout", timeout)
		return false
	}
}
