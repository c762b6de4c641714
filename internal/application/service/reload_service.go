package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/pkg/logger"
)

// ReloadResult reports what a reload did
type ReloadResult struct {
	Trigger  string             `json:"trigger"`
	Meta     models.LoadSummary `json:"meta"`
	Changed  bool               `json:"changed"`
	Projects int                `json:"projects"`
}

// ReloadService reloads every site resource together
type ReloadService struct {
	meta     *MetaService
	projects *ProjectService
	log      *logger.Logger
}

// NewReloadService creates a new ReloadService instance
func NewReloadService(meta *MetaService, projects *ProjectService) *ReloadService {
	return &ReloadService{
		meta:     meta,
		projects: projects,
		log:      logger.Get().WithFields(logger.Component("reload")),
	}
}

// Reload loads the commit log and the projects in parallel. A failure of
// either leaves the previous version of that resource in place.
func (s *ReloadService) Reload(ctx context.Context, trigger string) (ReloadResult, error) {
	result := ReloadResult{Trigger: trigger, Changed: true}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.meta.Load(gctx, trigger)
		result.Meta = summary
		return err
	})
	g.Go(func() error {
		return s.projects.Load(gctx)
	})

	err := g.Wait()
	result.Projects = len(s.projects.All())
	return result, err
}

// Refresh reloads the commit log only if it changed, and always rereads
// the projects
func (s *ReloadService) Refresh(ctx context.Context, trigger string) (ReloadResult, error) {
	result := ReloadResult{Trigger: trigger}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		changed, err := s.meta.Refresh(gctx, trigger)
		result.Changed = changed
		return err
	})
	g.Go(func() error {
		return s.projects.Load(gctx)
	})

	err := g.Wait()
	if summary, serr := s.meta.Summary(); serr == nil {
		result.Meta = summary
	}
	result.Projects = len(s.projects.All())
	if err == nil {
		s.log.Debug("Refresh complete",
			logger.String("trigger", trigger),
			logger.Bool("changed", result.Changed),
		)
	}
	return result, err
}
