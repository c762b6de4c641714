package router

import (
	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/transport/http/handler"
	"github.com/bravo68web/folio/pkg/openapi"
)

func (r *Router) githubRouter() {
	h := handler.NewGitHubHandler(r.Deps.ProfileService)

	r.server.OpenAPIGenerator.RegisterDocs("GET", r.apiPath("/github/:username"), openapi.RouteDocs{
		Summary:     "GitHub profile",
		Description: "Public profile of a GitHub user, served from cache while fresh",
		Tags:        []string{"GitHub"},
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: models.Profile{}},
			404: {Description: "Unknown user", Model: dto.ErrorResponse{}},
			502: {Description: "GitHub unreachable and nothing cached", Model: dto.ErrorResponse{}},
		},
	})
	r.api().GET("/github/:username", h.Profile)
}
