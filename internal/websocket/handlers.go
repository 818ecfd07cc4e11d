package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// UpgraderConfig configures the HTTP to WebSocket upgrade
type UpgraderConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://localhost:3000",
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1:3000",
	"http://127.0.0.1",
}

// NewUpgrader builds an upgrader that accepts the default local origins plus cfg.AllowedOrigins.
// An allowed origin of "*" accepts any origin.
func NewUpgrader(cfg UpgraderConfig) *websocket.Upgrader {
	allowed := make([]string, 0, len(defaultAllowedOrigins)+len(cfg.AllowedOrigins))
	allowed = append(allowed, defaultAllowedOrigins...)
	for _, origin := range cfg.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed = append(allowed, origin)
		}
	}

	return &websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowed)
		},
	}
}

func originAllowed(origin string, allowed []string) bool {
	// Non-browser clients send no Origin header
	if origin == "" {
		return true
	}

	for _, a := range allowed {
		if a == "*" || origin == a {
			return true
		}
	}

	// For development, allow localhost on any port
	return isLocalOrigin(origin)
}

// isLocalOrigin reports whether origin's host is exactly localhost or 127.0.0.1
func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}

// ServeWS upgrades the request, registers a new client with the hub and starts its pumps
func ServeWS(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("Failed to upgrade WebSocket connection", "remoteAddr", r.RemoteAddr, "error", err)
		return
	}

	client := newClient(hub, conn, uuid.NewString(), r.RemoteAddr)
	hub.logger.Info("New WebSocket connection established", "clientID", client.id, "remoteAddr", client.remoteAddr)

	select {
	case hub.register <- client:
	case <-hub.ctx.Done():
		conn.Close()
		return
	case <-time.After(hub.opts.HandoffWait):
		hub.logger.Error("Timeout sending registration request", "clientID", client.id)
		conn.Close()
		return
	}

	client.start()
}
