package handlers

import (
	"context"
	"net/http"
	"sort"

	"whiteboard-service/internal/services"
	"whiteboard-service/pkg/logger"
	"whiteboard-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// PresenceReader is the read side of the presence mirror. services.RedisService implements it.
type PresenceReader interface {
	GetLiveSessions(ctx context.Context) ([]string, error)
	GetSessionMembers(ctx context.Context, sessionID string) (map[string]services.PresenceRecord, error)
}

type PresenceMember struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	JoinedAt    int64  `json:"joinedAt"`
}

type SessionPresence struct {
	SessionID string           `json:"sessionId"`
	Members   []PresenceMember `json:"members"`
}

type PresenceHandler struct {
	reader PresenceReader
	logger *logger.Logger
}

func NewPresenceHandler(reader PresenceReader, log *logger.Logger) *PresenceHandler {
	return &PresenceHandler{reader: reader, logger: log}
}

// ListPresence godoc
// @Summary Mirrored presence
// @Description Sessions and members as recorded in the Redis presence mirror, shared by every instance
// @Tags sessions
// @Produce json
// @Success 200 {object} response.Body{data=[]handlers.SessionPresence} "Presence by session"
// @Failure 503 {object} response.Body "Presence mirror unavailable"
// @Router /presence [get]
func (h *PresenceHandler) ListPresence(c *gin.Context) {
	ctx := c.Request.Context()

	sessionIDs, err := h.reader.GetLiveSessions(ctx)
	if err != nil {
		h.logger.Error("Failed to list live sessions", "error", err)
		response.Error(c, http.StatusServiceUnavailable, response.CodePresenceFailed)
		return
	}
	sort.Strings(sessionIDs)

	out := make([]SessionPresence, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		records, err := h.reader.GetSessionMembers(ctx, sessionID)
		if err != nil {
			h.logger.Error("Failed to read session members", "sessionID", sessionID, "error", err)
			response.Error(c, http.StatusServiceUnavailable, response.CodePresenceFailed)
			return
		}

		members := make([]PresenceMember, 0, len(records))
		for id, r := range records {
			members = append(members, PresenceMember{ID: id, DisplayName: r.DisplayName, Color: r.Color, JoinedAt: r.JoinedAt})
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].JoinedAt != members[j].JoinedAt {
				return members[i].JoinedAt < members[j].JoinedAt
			}
			return members[i].ID < members[j].ID
		})

		out = append(out, SessionPresence{SessionID: sessionID, Members: members})
	}

	response.Success(c, http.StatusOK, out)
}
