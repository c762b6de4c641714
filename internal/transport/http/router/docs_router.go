package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/pkg/logger"
)

// docsRouter serves the API document generated from the registered routes.
// The document is built on first request, after every route exists.
func (r *Router) docsRouter() {
	log := logger.Get().WithFields(logger.Component("docs"))

	r.server.GET("/docs/openapi.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json; charset=utf-8")
		if err := r.server.OpenAPIGenerator.Generate().WriteJSON(c.Writer); err != nil {
			log.Error("Failed to write OpenAPI document", logger.Error(err))
		}
	})

	r.server.GET("/docs/openapi.yaml", func(c *gin.Context) {
		c.Header("Content-Type", "application/yaml")
		if err := r.server.OpenAPIGenerator.Generate().WriteYAML(c.Writer); err != nil {
			log.Error("Failed to write OpenAPI document", logger.Error(err))
		}
	})

	r.server.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/docs/openapi.json")
	})
}
