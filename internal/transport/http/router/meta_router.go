package router

import (
	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/transport/http/handler"
	"github.com/bravo68web/folio/pkg/openapi"
)

// viewParams are the query parameters every view-backed meta route accepts
var viewParams = []openapi.Parameter{
	openapi.QueryParam("progress", "number", "Scrubber position in [0, 100]; 100 shows every commit"),
	openapi.QueryParam("step", "integer", "Narrative step index; wins over cutoff and progress"),
	openapi.QueryParam("cutoff", "string", "RFC 3339 time; wins over progress"),
	openapi.QueryParam("x0", "number", "Brush left edge in plot pixels"),
	openapi.QueryParam("y0", "number", "Brush top edge in plot pixels"),
	openapi.QueryParam("x1", "number", "Brush right edge in plot pixels"),
	openapi.QueryParam("y1", "number", "Brush bottom edge in plot pixels"),
}

var notLoaded = openapi.ResponseDoc{Description: "No dataset loaded yet", Model: dto.ErrorResponse{}}
var badQuery = openapi.ResponseDoc{Description: "Invalid query", Model: dto.ErrorResponse{}}

func (r *Router) metaRouter() {
	meta := r.api().Group("/meta")
	h := handler.NewMetaHandler(r.Deps.MetaService)

	gen := r.server.OpenAPIGenerator
	tags := []string{"Meta"}

	gen.RegisterDocs("GET", r.apiPath("/meta/stats"), openapi.RouteDocs{
		Summary:     "Dataset stats",
		Description: "Whole-dataset figures shown in the stats panel",
		Tags:        tags,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.StatsResponse{}},
			503: notLoaded,
		},
	})
	meta.GET("/stats", h.Stats)

	gen.RegisterDocs("GET", r.apiPath("/meta/commits"), openapi.RouteDocs{
		Summary:     "List commits",
		Description: "Commits visible at the requested time cutoff, oldest first",
		Tags:        tags,
		Query:       viewParams[:3],
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.CommitListResponse{}},
			400: badQuery,
			503: notLoaded,
		},
	})
	meta.GET("/commits", h.Commits)

	gen.RegisterDocs("GET", r.apiPath("/meta/commits/:id/rows"), openapi.RouteDocs{
		Summary:     "Commit rows",
		Description: "The line records a commit touched",
		Tags:        tags,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.CommitRowsResponse{}},
			404: {Description: "Unknown commit", Model: dto.ErrorResponse{}},
			503: notLoaded,
		},
	})
	meta.GET("/commits/:id/rows", h.CommitRows)

	gen.RegisterDocs("GET", r.apiPath("/meta/view"), openapi.RouteDocs{
		Summary:     "Dashboard view",
		Description: "Everything the dashboard renders for one scrubber position and brush",
		Tags:        tags,
		Query:       viewParams,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.ViewResponse{}},
			400: badQuery,
			503: notLoaded,
		},
	})
	meta.GET("/view", h.View)

	gen.RegisterDocs("GET", r.apiPath("/meta/breakdown"), openapi.RouteDocs{
		Summary:     "Language breakdown",
		Description: "Line counts per file type of the brushed commits, or of every visible commit without a brush",
		Tags:        tags,
		Query:       viewParams,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.BreakdownResponse{}},
			400: badQuery,
			503: notLoaded,
		},
	})
	meta.GET("/breakdown", h.Breakdown)

	gen.RegisterDocs("GET", r.apiPath("/meta/breakdown/chart"), openapi.RouteDocs{
		Summary:     "Language breakdown chart",
		Description: "The breakdown as an ECharts pie option",
		Tags:        tags,
		Query:       viewParams,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.ChartOptionResponse{}},
			400: badQuery,
			503: notLoaded,
		},
	})
	meta.GET("/breakdown/chart", h.BreakdownChart)

	gen.RegisterDocs("GET", r.apiPath("/meta/files"), openapi.RouteDocs{
		Summary:     "File summaries",
		Description: "Files of the visible commits, largest first",
		Tags:        tags,
		Query:       viewParams[:3],
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.FileListResponse{}},
			400: badQuery,
			503: notLoaded,
		},
	})
	meta.GET("/files", h.Files)

	gen.RegisterDocs("GET", r.apiPath("/meta/steps"), openapi.RouteDocs{
		Summary:     "Narrative steps",
		Description: "One story step per commit",
		Tags:        tags,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.StepListResponse{}},
			503: notLoaded,
		},
	})
	meta.GET("/steps", h.Steps)

	gen.RegisterDocs("GET", r.apiPath("/meta/summary"), openapi.RouteDocs{
		Summary:     "Load summary",
		Description: "How the current dataset was loaded and which records were skipped",
		Tags:        tags,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: models.LoadSummary{}},
			503: notLoaded,
		},
	})
	meta.GET("/summary", h.Summary)
}
