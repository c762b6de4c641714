package injectable

import (
	"context"
	"fmt"

	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/repository"
	domainservice "github.com/bravo68web/folio/internal/domain/service"
	"github.com/bravo68web/folio/internal/infrastructure/cache"
	"github.com/bravo68web/folio/internal/infrastructure/database"
	"github.com/bravo68web/folio/internal/infrastructure/git"
	"github.com/bravo68web/folio/internal/infrastructure/github"
	infrarepo "github.com/bravo68web/folio/internal/infrastructure/repository"
	"github.com/bravo68web/folio/internal/infrastructure/storage"
	"github.com/bravo68web/folio/pkg/logger"
)

const profileBucket = "profiles"

// Dependencies holds all the dependencies required by the routers and
// the CLI commands
type Dependencies struct {
	// Infrastructure
	Storage    domainservice.StorageService
	GitService domainservice.GitService
	LocRows    repository.LocRowRepository // nil without a database
	GitHub     *github.Client
	Cache      *cache.BoltCache // nil when the cache could not be opened

	// Services
	MetaService      *service.MetaService
	ProjectService   *service.ProjectService
	ProfileService   *service.ProfileService
	ReloadService    *service.ReloadService
	TokenService     *service.TokenService
	GeneratorService *service.GeneratorService
	RefreshCron      *service.RefreshCronService
}

// LoadDependencies builds every service from cfg. db may be nil unless the
// commit log is read from the database.
func LoadDependencies(ctx context.Context, cfg *config.Config, db *database.Database) (*Dependencies, error) {
	log := logger.Get().WithFields(logger.Component("dependencies"))

	// Initialize storage
	storageFactory := storage.NewFactory(&cfg.Storage)
	storageService, err := storageFactory.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage service: %w", err)
	}

	// Initialize repositories
	var locRows repository.LocRowRepository
	if db != nil {
		locRows = infrarepo.NewLocRowRepository(db.DB())
	}

	metaService, err := service.NewMetaService(storageService, locRows, &cfg.Meta)
	if err != nil {
		return nil, err
	}
	projectService := service.NewProjectService(storageService, &cfg.Projects)
	reloadService := service.NewReloadService(metaService, projectService)
	gitService := git.NewGitOperations()

	githubClient := github.NewClient(&cfg.GitHub)

	// A missing cache only costs API calls, so it never blocks startup
	var profileCache service.ProfileCache
	boltCache, err := cache.Open(cfg.GitHub.CachePath, profileBucket, cfg.GitHub.CacheTTL)
	if err != nil {
		log.Warn("GitHub profile cache disabled",
			logger.String("path", cfg.GitHub.CachePath),
			logger.Error(err),
		)
	} else {
		profileCache = boltCache
	}

	return &Dependencies{
		Storage:          storageService,
		GitService:       gitService,
		LocRows:          locRows,
		GitHub:           githubClient,
		Cache:            boltCache,
		MetaService:      metaService,
		ProjectService:   projectService,
		ProfileService:   service.NewProfileService(githubClient, profileCache),
		ReloadService:    reloadService,
		TokenService:     service.NewTokenService(&cfg.Admin),
		GeneratorService: service.NewGeneratorService(gitService, storageService),
		RefreshCron:      service.NewRefreshCronService(reloadService, cfg.Refresh.Interval),
	}, nil
}

// LocalPath resolves a storage path to a file on disk, or "" when the
// storage backend is not local
func (d *Dependencies) LocalPath(path string) string {
	if lp, ok := d.Storage.(storage.LocalPather); ok {
		return lp.LocalPath(path)
	}
	return ""
}

// Close releases the resources the dependencies hold open
func (d *Dependencies) Close() error {
	if d.RefreshCron != nil {
		d.RefreshCron.Stop()
	}
	if d.Cache != nil {
		return d.Cache.Close()
	}
	return nil
}
