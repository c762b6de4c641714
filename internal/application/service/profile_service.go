package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/infrastructure/cache"
	"github.com/bravo68web/folio/internal/observability"
	apperrors "github.com/bravo68web/folio/pkg/errors"
	"github.com/bravo68web/folio/pkg/logger"
)

// ProfileFetcher fetches a GitHub profile from the API
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*models.Profile, error)
}

// ProfileCache stores fetched profiles
type ProfileCache interface {
	Get(key string, out any) (fresh bool, err error)
	Put(key string, value any) error
}

// Cache lookup results
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheStale = "stale"
)

// ProfileService serves GitHub profiles through a TTL cache. When the API
// fails, a stale cached profile is served instead of the error.
type ProfileService struct {
	fetcher ProfileFetcher
	cache   ProfileCache // may be nil
	log     *logger.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(fetcher ProfileFetcher, cache ProfileCache) *ProfileService {
	return &ProfileService{
		fetcher: fetcher,
		cache:   cache,
		log:     logger.Get().WithFields(logger.Component("github")),
	}
}

// Profile returns the profile of username
func (s *ProfileService) Profile(ctx context.Context, username string) (*models.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.BadRequest("username is required", apperrors.ErrInvalidInput)
	}
	key := strings.ToLower(username)

	var cached models.Profile
	haveCached := false
	if s.cache != nil {
		fresh, err := s.cache.Get(key, &cached)
		switch {
		case err == nil && fresh:
			observability.GitHubCacheTotal.WithLabelValues(cacheHit).Inc()
			return &cached, nil
		case err == nil:
			haveCached = true
		case !errors.Is(err, cache.ErrMiss):
			s.log.Warn("Failed to read profile cache", logger.String("username", username), logger.Error(err))
		}
	}

	profile, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil {
		if haveCached && !apperrors.IsNotFound(err) {
			observability.GitHubCacheTotal.WithLabelValues(cacheStale).Inc()
			s.log.Warn("GitHub fetch failed, serving cached profile",
				logger.String("username", username),
				logger.Error(err),
			)
			return &cached, nil
		}
		s.log.Error("Failed to fetch GitHub profile", logger.String("username", username), logger.Error(err))
		return nil, err
	}

	observability.GitHubCacheTotal.WithLabelValues(cacheMiss).Inc()
	if s.cache != nil {
		if err := s.cache.Put(key, profile); err != nil {
			s.log.Warn("Failed to write profile cache", logger.String("username", username), logger.Error(err))
		}
	}
	return profile, nil
}
