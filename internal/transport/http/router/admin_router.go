package router

import (
	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/transport/http/handler"
	"github.com/bravo68web/folio/internal/transport/http/middleware"
	"github.com/bravo68web/folio/pkg/logger"
	"github.com/bravo68web/folio/pkg/openapi"
)

func (r *Router) adminRouter() {
	if !r.server.Config.Admin.Enabled {
		logger.Get().Info("Admin endpoints disabled", logger.Component("router"))
		return
	}

	auth := middleware.NewAuthMiddleware(r.Deps.TokenService)
	admin := r.api().Group("/admin", auth.RequireAdmin())
	h := handler.NewAdminHandler(r.Deps.ReloadService)

	r.server.OpenAPIGenerator.RegisterDocs("POST", r.apiPath("/admin/reload"), openapi.RouteDocs{
		Summary:     "Reload data",
		Description: "Rereads the commit log and the projects. A failed load keeps the previous data.",
		Tags:        []string{"Admin"},
		Secured:     true,
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Reloaded", Model: dto.ReloadResponse{}},
			401: {Description: "Missing or invalid token", Model: dto.ErrorResponse{}},
			502: {Description: "Load failed", Model: dto.ErrorResponse{}},
		},
	})
	admin.POST("/reload", h.Reload)
}
