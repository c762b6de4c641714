package dto

import (
	"time"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

// MetaQueryRequest is the dashboard interaction carried in the query
// string. The brush needs all four corners or none.
type MetaQueryRequest struct {
	Progress *float64 `form:"progress" json:"progress,omitempty"`
	Step     *int     `form:"step" json:"step,omitempty"`
	Cutoff   string   `form:"cutoff" json:"cutoff,omitempty"` // RFC 3339
	X0       *float64 `form:"x0" json:"x0,omitempty"`
	Y0       *float64 `form:"y0" json:"y0,omitempty"`
	X1       *float64 `form:"x1" json:"x1,omitempty"`
	Y1       *float64 `form:"y1" json:"y1,omitempty"`
}

// HasBrush reports whether any brush corner was given
func (r MetaQueryRequest) HasBrush() bool {
	return r.X0 != nil || r.Y0 != nil || r.X1 != nil || r.Y1 != nil
}

// ToQuery validates the request and converts it to a dashboard query
func (r MetaQueryRequest) ToQuery() (meta.Query, error) {
	var q meta.Query

	switch {
	case r.Step != nil:
		q = q.WithStep(*r.Step)
	case r.Cutoff != "":
		at, err := time.Parse(time.RFC3339, r.Cutoff)
		if err != nil {
			return q, apperrors.ValidationError("cutoff", "cutoff must be an RFC 3339 timestamp")
		}
		q = q.WithCutoff(at)
	case r.Progress != nil:
		q = q.WithProgress(*r.Progress)
	}

	if r.HasBrush() {
		if r.X0 == nil || r.Y0 == nil || r.X1 == nil || r.Y1 == nil {
			return q, apperrors.ValidationError("brush", "brush needs x0, y0, x1 and y1")
		}
		q = q.WithBrush(meta.NewSelection(*r.X0, *r.Y0, *r.X1, *r.Y1))
	}
	return q, nil
}

// CommitListResponse lists the commits at a cutoff
type CommitListResponse struct {
	Cutoff   time.Time       `json:"cutoff"`
	Progress float64         `json:"progress"`
	Total    int             `json:"total"`
	Commits  []models.Commit `json:"commits"`
}

// CommitRowsResponse lists the rows of one commit
type CommitRowsResponse struct {
	Commit models.Commit `json:"commit"`
	Rows   []models.Row  `json:"rows"`
}

// PlotResponse is the scatter geometry of one view
type PlotResponse struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin meta.Margin  `json:"margin"`
	Points []meta.Point `json:"points"`
}

// ViewResponse is the full dashboard state of one interaction
type ViewResponse struct {
	Progress    float64                `json:"progress"`
	Cutoff      time.Time              `json:"cutoff"`
	CutoffLabel string                 `json:"cutoff_label"`
	Step        *int                   `json:"step,omitempty"`
	Commits     int                    `json:"commits"`
	Plot        PlotResponse           `json:"plot"`
	Brush       *meta.Selection        `json:"brush,omitempty"`
	Selected    []string               `json:"selected"`
	CountLabel  string                 `json:"count_label"`
	Breakdown   []models.LanguageShare `json:"breakdown"`
	Files       []models.FileSummary   `json:"files"`
	Steps       []models.Step          `json:"steps"`
}

// NewViewResponse converts a view state for the JSON API
func NewViewResponse(v meta.ViewState) ViewResponse {
	resp := ViewResponse{
		Progress:    v.Progress,
		Cutoff:      v.Cutoff,
		CutoffLabel: v.CutoffLabel,
		Commits:     len(v.Filtered),
		Plot: PlotResponse{
			Width:  v.Plot.Width,
			Height: v.Plot.Height,
			Margin: v.Plot.Margin,
			Points: nonNil(v.Points),
		},
		Brush:      v.Brush,
		Selected:   make([]string, 0, len(v.Selected)),
		CountLabel: v.CountLabel,
		Breakdown:  nonNil(v.Breakdown),
		Files:      nonNil(v.Files),
		Steps:      nonNil(v.Steps),
	}
	if v.Step >= 0 {
		step := v.Step
		resp.Step = &step
	}
	for _, c := range v.Selected {
		resp.Selected = append(resp.Selected, c.ID)
	}
	return resp
}

// BreakdownResponse is the language breakdown of a selection
type BreakdownResponse struct {
	CountLabel string                 `json:"count_label"`
	Selected   int                    `json:"selected"`
	Breakdown  []models.LanguageShare `json:"breakdown"`
}

// FileListResponse lists the files present at a cutoff
type FileListResponse struct {
	Cutoff time.Time            `json:"cutoff"`
	Files  []models.FileSummary `json:"files"`
}

// StepListResponse lists the narrative steps
type StepListResponse struct {
	Steps []models.Step `json:"steps"`
}

// StatsResponse is the stats panel
type StatsResponse struct {
	Stats []models.Stat `json:"stats"`
}

// nonNil keeps empty lists serialized as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
