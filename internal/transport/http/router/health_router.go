package router

import (
	"github.com/bravo68web/folio/internal/transport/http/handler"
)

func (r *Router) healthRouter() {
	h := handler.NewHealthHandler(r.Deps.MetaService)

	r.server.GET("/health", h.Live)
	r.server.HEAD("/health", h.Live)
	r.server.GET("/health/ready", h.Ready)
}
