package handlers

import (
	"context"
	"net/http"
	"time"

	"whiteboard-service/internal/whiteboard"

	"github.com/gin-gonic/gin"
)

// Pinger is an optional dependency checked by the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	coordinator *whiteboard.Coordinator
	checks      map[string]Pinger
}

func NewHealthHandler(coordinator *whiteboard.Coordinator, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{coordinator: coordinator, checks: checks}
}

// Healthz godoc
// @Summary Liveness and dependency health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Failure 503 {object} map[string]interface{} "A dependency is down"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"connections":  h.coordinator.ConnectionCount(),
		"dependencies": deps,
	})
}
