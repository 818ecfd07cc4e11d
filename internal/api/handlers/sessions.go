package handlers

import (
	"net/http"

	"whiteboard-service/internal/whiteboard"
	"whiteboard-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	coordinator *whiteboard.Coordinator
}

func NewSessionHandler(coordinator *whiteboard.Coordinator) *SessionHandler {
	return &SessionHandler{coordinator: coordinator}
}

// ListSessions godoc
// @Summary List live sessions
// @Description Sessions currently held in memory with their member and operation counts
// @Tags sessions
// @Produce json
// @Success 200 {object} response.Body{data=[]whiteboard.SessionSummary} "Live sessions"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.coordinator.Sessions())
}

// GetMetrics godoc
// @Summary Broadcast metrics
// @Description Aggregated fan-out statistics plus the most recent broadcasts
// @Tags sessions
// @Produce json
// @Param history query bool false "Include recent broadcast history"
// @Success 200 {object} response.Body "Metrics"
// @Router /metrics [get]
func (h *SessionHandler) GetMetrics(c *gin.Context) {
	metrics := h.coordinator.Metrics()
	data := gin.H{
		"connections": h.coordinator.ConnectionCount(),
		"sessions":    len(h.coordinator.Sessions()),
		"broadcasts":  metrics.Aggregated(),
	}
	if c.Query("history") == "true" {
		data["history"] = metrics.History()
	}
	response.Success(c, http.StatusOK, data)
}

// ResetMetrics godoc
// @Summary Reset broadcast metrics
// @Description Clears the broadcast history and aggregates
// @Tags sessions
// @Success 204 "Metrics cleared"
// @Router /metrics [delete]
func (h *SessionHandler) ResetMetrics(c *gin.Context) {
	h.coordinator.Metrics().Reset()
	c.Status(http.StatusNoContent)
}
