package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/domain/service"
	"github.com/bravo68web/folio/internal/observability"
	apperrors "github.com/bravo68web/folio/pkg/errors"
	"github.com/bravo68web/folio/pkg/logger"
)

// ProjectList is one gallery render: the matching projects and the
// per-year rollup of the search result
type ProjectList struct {
	Query    string             `json:"query,omitempty"`
	Year     models.Year        `json:"year,omitempty"`
	Total    int                `json:"total"`
	Projects []models.Project   `json:"projects"`
	Years    []models.YearCount `json:"years"`
}

// ProjectService serves the project gallery from projects.json
type ProjectService struct {
	storage service.StorageService
	config  *config.ProjectsConfig
	log     *logger.Logger

	mu       sync.RWMutex
	projects []models.Project
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(storage service.StorageService, cfg *config.ProjectsConfig) *ProjectService {
	return &ProjectService{
		storage: storage,
		config:  cfg,
		log:     logger.Get().WithFields(logger.Component("projects")),
	}
}

// Load reads projects.json and replaces the current list. On failure the
// previous list stays in place.
func (s *ProjectService) Load(ctx context.Context) error {
	data, err := s.storage.ReadFile(ctx, s.config.Path)
	if err != nil {
		s.log.Error("Failed to read projects", logger.Source(s.config.Path), logger.Error(err))
		return apperrors.LoadFailed(s.config.Path, err)
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		s.log.Error("Failed to decode projects", logger.Source(s.config.Path), logger.Error(err))
		return apperrors.LoadFailed(s.config.Path, fmt.Errorf("decode: %w", err))
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()

	observability.ProjectsLoaded.Set(float64(len(projects)))
	s.log.Info("Projects loaded", logger.Source(s.config.Path), logger.Int("projects", len(projects)))
	return nil
}

// All returns every project in file order
func (s *ProjectService) All() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// List searches the gallery. The query matches case-insensitively against
// every field; the year rollup is computed from the search result, and the
// year filter then narrows the listed projects.
func (s *ProjectService) List(query string, year models.Year) ProjectList {
	query = strings.TrimSpace(query)
	matched := Search(s.All(), query)

	list := ProjectList{
		Query: query,
		Year:  year,
		Years: RollupYears(matched),
	}
	if year == "" {
		list.Projects = matched
	} else {
		list.Projects = FilterYear(matched, year)
	}
	list.Total = len(list.Projects)
	return list
}

// Search returns the projects whose joined fields contain query, ignoring case
func Search(projects []models.Project, query string) []models.Project {
	if query == "" {
		return projects
	}
	needle := strings.ToLower(query)

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.SearchText()), needle) {
			out = append(out, p)
		}
	}
	return out
}

// FilterYear keeps the projects completed in year
func FilterYear(projects []models.Project, year models.Year) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// RollupYears counts projects per year in first-seen order and colors each
// slice by its position
func RollupYears(projects []models.Project) []models.YearCount {
	palette := chart.NewOrdinal(chart.Tableau10)
	index := make(map[models.Year]int)
	var out []models.YearCount

	for _, p := range projects {
		if i, ok := index[p.Year]; ok {
			out[i].Count++
			continue
		}
		index[p.Year] = len(out)
		out = append(out, models.YearCount{Year: p.Year, Count: 1, Color: palette.At(len(out))})
	}
	return out
}

// ToggleYear returns the year filter after a pie slice click: clicking the
// selected year clears the filter
func ToggleYear(current, clicked models.Year) models.Year {
	if current == clicked {
		return ""
	}
	return clicked
}
