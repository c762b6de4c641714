package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
)

// ProjectHandler serves the project gallery as JSON
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) list(c *gin.Context) (service.ProjectList, bool) {
	var req dto.ProjectQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handleError(c, bindError(err))
		return service.ProjectList{}, false
	}
	return h.projects.List(req.Query, models.Year(req.Year)), true
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	list, ok := h.list(c)
	if !ok {
		return
	}

	resp := dto.ProjectListResponse{
		Query:    list.Query,
		Year:     string(list.Year),
		Total:    list.Total,
		Projects: list.Projects,
		Years:    list.Years,
	}
	if resp.Projects == nil {
		resp.Projects = []models.Project{}
	}
	if resp.Years == nil {
		resp.Years = []models.YearCount{}
	}
	c.JSON(http.StatusOK, resp)
}

// Chart handles GET /api/v1/projects/chart, the year rollup as an ECharts
// pie option
func (h *ProjectHandler) Chart(c *gin.Context) {
	list, ok := h.list(c)
	if !ok {
		return
	}

	pie := chart.ProjectYearPie(list.Years)
	pie.Validate()
	c.JSON(http.StatusOK, dto.ChartOptionResponse{Option: pie.JSON()})
}
