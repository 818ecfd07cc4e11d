package handlers

import (
	"net/http"

	"whiteboard-service/internal/catalog"
	"whiteboard-service/pkg/logger"
	"whiteboard-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	store  catalog.Store
	logger *logger.Logger
}

func NewTemplateHandler(store catalog.Store, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{store: store, logger: log}
}

// ListTemplates godoc
// @Summary List drawing templates
// @Description Template catalog shown before joining. A template id is used as the session id.
// @Tags templates
// @Produce json
// @Success 200 {object} response.Body{data=[]catalog.Template} "Template catalog"
// @Failure 503 {object} response.Body "Catalog unavailable"
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list templates", "error", err)
		response.Error(c, http.StatusServiceUnavailable, response.CodeCatalogFailed)
		return
	}
	response.Success(c, http.StatusOK, templates)
}
