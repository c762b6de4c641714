package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/infrastructure/database"
	"github.com/bravo68web/folio/pkg/logger"
	"github.com/bravo68web/folio/pkg/openapi"
)

// Version is stamped into the API document and telemetry resource
var Version = "dev"

const shutdownTimeout = 10 * time.Second

// Server is the HTTP side of the site: the gin engine, the loaded config
// and the OpenAPI generator routers register their docs with
type Server struct {
	*gin.Engine

	Config           *config.Config
	DB               *database.Database // nil unless meta.source is database
	OpenAPIGenerator *openapi.Generator

	log *logger.Logger
}

// New creates a Server for cfg. db may be nil.
func New(cfg *config.Config, db *database.Database) *Server {
	switch cfg.Server.Mode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	apiPrefix := normalizeBase(cfg.Server.BasePath) + "api/"
	generator := openapi.NewGenerator(
		engine,
		openapi.Info{
			Title:       cfg.Site.Title + " API",
			Description: "Commit activity dashboard and project gallery of " + cfg.Site.Author,
			Version:     Version,
			Contact:     &openapi.Contact{Name: cfg.Site.Author, URL: cfg.Site.GitHubURL, Email: cfg.Site.Email},
		},
		[]openapi.Server{{URL: "/", Description: "This server"}},
		[]openapi.Tag{
			{Name: "Meta", Description: "Commit activity dashboard"},
			{Name: "Projects", Description: "Project gallery"},
			{Name: "GitHub", Description: "Cached GitHub profiles"},
			{Name: "Admin", Description: "Dataset administration"},
		},
		apiPrefix,
	)

	return &Server{
		Engine:           engine,
		Config:           cfg,
		DB:               db,
		OpenAPIGenerator: generator,
		log:              logger.Get().WithFields(logger.Component("http-server")),
	}
}

func normalizeBase(p string) string {
	for len(p) > 0 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p + "/"
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Config.ServerAddress(),
		Handler:      s.Engine,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening",
			logger.String("address", srv.Addr),
			logger.String("base_path", s.Config.Server.BasePath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
