package router

import (
	"fmt"

	"github.com/bravo68web/folio/internal/transport/http/handler"
	"github.com/bravo68web/folio/web"
)

// pageRouter mounts the HTML pages and installs their templates
func (r *Router) pageRouter() (*handler.PageHandler, error) {
	h := handler.NewPageHandler(
		r.site,
		r.Deps.MetaService,
		r.Deps.ProjectService,
		r.Deps.ProfileService,
		r.server.Config.Site.GitHubUser,
	)

	tmpl, err := web.Templates(h.Funcs())
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	r.server.SetHTMLTemplate(tmpl)

	pages := r.base()
	pages.GET("", h.Home)
	pages.GET("contact/", h.Contact)
	pages.GET("resume/", h.Resume)
	pages.GET("meta/", h.Meta)
	pages.GET("meta/chart.svg", h.MetaChart)
	pages.GET("projects/", h.Projects)
	pages.GET("github/", h.GitHub)
	pages.POST("theme", r.site.SetTheme)

	return h, nil
}
