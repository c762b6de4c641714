package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/injectable"
	"github.com/bravo68web/folio/internal/server"
	"github.com/bravo68web/folio/internal/transport/http/handler"
	"github.com/bravo68web/folio/internal/transport/http/middleware"
	"github.com/bravo68web/folio/web"
)

// Router mounts every handler of the site on the server's engine
type Router struct {
	server *server.Server
	Deps   *injectable.Dependencies
	site   *handler.Site
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server, deps *injectable.Dependencies) *Router {
	return &Router{
		server: s,
		Deps:   deps,
		site:   handler.NewSite(s.Config.Site, s.Config.Server.BasePath),
	}
}

// BasePath is the normalized prefix every page and API route is served under
func BasePath(cfg *config.Config) string {
	return handler.NormalizeBasePath(cfg.Server.BasePath)
}

// base is the group every page and API route lives under
func (r *Router) base() *gin.RouterGroup {
	return r.server.Group(r.site.BasePath())
}

// api is the JSON API group
func (r *Router) api() *gin.RouterGroup {
	return r.base().Group("api/v1")
}

// apiPath is the absolute path of an API route, as the docs are keyed
func (r *Router) apiPath(p string) string {
	return r.site.BasePath() + "api/v1" + p
}

// RegisterRoutes sets up the routes and middleware for the server.
func (r *Router) RegisterRoutes() error {
	// Tracing runs first so the logger sees the span ids
	r.server.Use(
		middleware.RecoveryMiddleware(),
		middleware.TracingMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(nil),
	)

	r.healthRouter()
	r.metricsRouter()
	r.docsRouter()

	r.metaRouter()
	r.projectRouter()
	r.githubRouter()
	r.adminRouter()

	pages, err := r.pageRouter()
	if err != nil {
		return err
	}
	r.server.StaticFS(r.site.URL("static"), http.FS(web.Static()))
	r.server.NoRoute(pages.NotFound)
	return nil
}
