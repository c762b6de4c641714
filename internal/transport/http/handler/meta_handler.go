package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
)

// MetaHandler serves the commit dashboard as JSON
type MetaHandler struct {
	meta *service.MetaService
}

// NewMetaHandler creates a new MetaHandler instance
func NewMetaHandler(meta *service.MetaService) *MetaHandler {
	return &MetaHandler{meta: meta}
}

// view binds the dashboard query string and computes the view state
func (h *MetaHandler) view(c *gin.Context) (meta.ViewState, bool) {
	var req dto.MetaQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handleError(c, bindError(err))
		return meta.ViewState{}, false
	}
	q, err := req.ToQuery()
	if err != nil {
		handleError(c, err)
		return meta.ViewState{}, false
	}
	v, err := h.meta.View(q)
	if err != nil {
		handleError(c, err)
		return meta.ViewState{}, false
	}
	return v, true
}

// Stats handles GET /api/v1/meta/stats
func (h *MetaHandler) Stats(c *gin.Context) {
	stats, err := h.meta.Stats()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{Stats: stats})
}

// Commits handles GET /api/v1/meta/commits
func (h *MetaHandler) Commits(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CommitListResponse{
		Cutoff:   v.Cutoff,
		Progress: v.Progress,
		Total:    len(v.Filtered),
		Commits:  v.Filtered,
	})
}

// CommitRows handles GET /api/v1/meta/commits/:id/rows
func (h *MetaHandler) CommitRows(c *gin.Context) {
	id := c.Param("id")

	commit, rows, err := h.meta.CommitRows(id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommitRowsResponse{Commit: commit, Rows: rows})
}

// View handles GET /api/v1/meta/view
func (h *MetaHandler) View(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewViewResponse(v))
}

// Breakdown handles GET /api/v1/meta/breakdown
func (h *MetaHandler) Breakdown(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	breakdown := v.Breakdown
	if breakdown == nil {
		breakdown = []models.LanguageShare{}
	}
	c.JSON(http.StatusOK, dto.BreakdownResponse{
		CountLabel: v.CountLabel,
		Selected:   len(v.Selected),
		Breakdown:  breakdown,
	})
}

// BreakdownChart handles GET /api/v1/meta/breakdown/chart, the breakdown as
// an ECharts pie option
func (h *MetaHandler) BreakdownChart(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	ds, err := h.meta.Dataset()
	if err != nil {
		handleError(c, err)
		return
	}

	pie := chart.BreakdownPie(v.Breakdown, ds.Palette())
	pie.Validate()
	c.JSON(http.StatusOK, dto.ChartOptionResponse{Option: pie.JSON()})
}

// Files handles GET /api/v1/meta/files
func (h *MetaHandler) Files(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	files := v.Files
	if files == nil {
		files = []models.FileSummary{}
	}
	c.JSON(http.StatusOK, dto.FileListResponse{Cutoff: v.Cutoff, Files: files})
}

// Steps handles GET /api/v1/meta/steps
func (h *MetaHandler) Steps(c *gin.Context) {
	ds, err := h.meta.Dataset()
	if err != nil {
		handleError(c, err)
		return
	}
	steps := ds.Steps()
	if steps == nil {
		steps = []models.Step{}
	}
	c.JSON(http.StatusOK, dto.StepListResponse{Steps: steps})
}

// Summary handles GET /api/v1/meta/summary
func (h *MetaHandler) Summary(c *gin.Context) {
	summary, err := h.meta.Summary()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
