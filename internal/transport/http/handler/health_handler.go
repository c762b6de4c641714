package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/application/service"
)

// HealthHandler reports liveness and dataset readiness
type HealthHandler struct {
	meta *service.MetaService
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(meta *service.MetaService) *HealthHandler {
	return &HealthHandler{meta: meta}
}

// Live handles GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Dataset:   h.meta.Ready(),
		Timestamp: time.Now().UTC(),
	})
}

// Ready handles GET /health/ready. It fails until a dataset is loaded.
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ready", Timestamp: time.Now().UTC()}

	ds, err := h.meta.Dataset()
	if err != nil {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp.Dataset = true
	resp.Commits = len(ds.Commits)
	resp.LoadedAt = ds.Summary.LoadedAt
	c.JSON(http.StatusOK, resp)
}
