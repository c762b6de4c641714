package router

import (
	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/transport/http/handler"
	"github.com/bravo68web/folio/pkg/openapi"
)

var projectParams = []openapi.Parameter{
	openapi.QueryParam("q", "string", "Case-insensitive search over every project field"),
	openapi.QueryParam("year", "string", "Only list projects completed this year"),
}

func (r *Router) projectRouter() {
	projects := r.api().Group("/projects")
	h := handler.NewProjectHandler(r.Deps.ProjectService)

	r.server.OpenAPIGenerator.RegisterDocs("GET", r.apiPath("/projects"), openapi.RouteDocs{
		Summary:     "List projects",
		Description: "Projects matching the search, with the per-year rollup of the search result",
		Tags:        []string{"Projects"},
		Query:       projectParams,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.ProjectListResponse{}},
		},
	})
	projects.GET("", h.List)

	r.server.OpenAPIGenerator.RegisterDocs("GET", r.apiPath("/projects/chart"), openapi.RouteDocs{
		Summary:     "Projects per year chart",
		Description: "The year rollup as an ECharts pie option",
		Tags:        []string{"Projects"},
		Query:       projectParams,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.ChartOptionResponse{}},
		},
	})
	projects.GET("/chart", h.Chart)
}
