package dto

import (
	"github.com/bravo68web/folio/internal/domain/models"
)

// ProjectQueryRequest filters the project gallery
type ProjectQueryRequest struct {
	Query string `form:"q" json:"q,omitempty"`
	Year  string `form:"year" json:"year,omitempty"`
}

// ProjectListResponse is one gallery listing with its year rollup
type ProjectListResponse struct {
	Query    string             `json:"query,omitempty"`
	Year     string             `json:"year,omitempty"`
	Total    int                `json:"total"`
	Projects []models.Project   `json:"projects"`
	Years    []models.YearCount `json:"years"`
}

// ChartOptionResponse wraps an ECharts option document
type ChartOptionResponse struct {
	Option map[string]interface{} `json:"option"`
}
