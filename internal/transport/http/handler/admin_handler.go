package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/transport/http/middleware"
	"github.com/bravo68web/folio/pkg/logger"
)

// AdminHandler serves the authenticated maintenance endpoints
type AdminHandler struct {
	reload *service.ReloadService
	log    *logger.Logger
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(reload *service.ReloadService) *AdminHandler {
	return &AdminHandler{
		reload: reload,
		log:    logger.Get().WithFields(logger.Component("admin")),
	}
}

// Reload handles POST /api/v1/admin/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	subject := ""
	if claims := middleware.GetClaims(c); claims != nil {
		subject = claims.Subject
	}
	h.log.Info("Reload requested", logger.String("subject", subject), logger.RequestID(middleware.GetRequestID(c)))

	result, err := h.reload.Reload(c.Request.Context(), service.TriggerAdmin)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReloadResponse{
		Trigger:  result.Trigger,
		Changed:  result.Changed,
		Projects: result.Projects,
		Summary:  result.Meta,
	})
}
