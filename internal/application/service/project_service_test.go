package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/models"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

func loadProjects(t *testing.T) *ProjectService {
	t.Helper()
	store := newTempStorage(t, map[string]string{"projects.json": sampleProjects})
	svc := NewProjectService(store, &config.ProjectsConfig{Path: "projects.json"})
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestProjectService_Load(t *testing.T) {
	t.Parallel()
	svc := loadProjects(t)

	all := svc.All()
	require.Len(t, all, 3)
	assert.Equal(t, models.Year("2023"), all[1].Year)
	assert.Equal(t, "https://example.com", all[2].URL)
}

func TestProjectService_LoadFailures(t *testing.T) {
	t.Parallel()

	store := newTempStorage(t, map[string]string{"bad.json": "{not json"})
	svc := NewProjectService(store, &config.ProjectsConfig{Path: "bad.json"})
	assert.True(t, apperrors.IsLoadFailed(svc.Load(context.Background())))

	svc = NewProjectService(store, &config.ProjectsConfig{Path: "missing.json"})
	assert.True(t, apperrors.IsLoadFailed(svc.Load(context.Background())))
}

func TestProjectService_ListRollup(t *testing.T) {
	t.Parallel()
	svc := loadProjects(t)

	list := svc.List("", "")
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, []models.YearCount{
		{Year: "2024", Count: 2, Color: "#4e79a7"},
		{Year: "2023", Count: 1, Color: "#f28e2c"},
	}, list.Years)
}

func TestProjectService_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	t.Parallel()
	svc := loadProjects(t)

	list := svc.List("d3", "")
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "Weather App", list.Projects[0].Title)

	list = svc.List("EXAMPLE.COM", "")
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "Budget Tool", list.Projects[0].Title)

	list = svc.List("2024", "")
	assert.Len(t, list.Projects, 2)
}

func TestProjectService_YearFilterKeepsSearchRollup(t *testing.T) {
	t.Parallel()
	svc := loadProjects(t)

	list := svc.List("", "2023")
	require.Len(t, list.Projects, 1)
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Years, 2)
}

func TestToggleYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.Year("2024"), ToggleYear("", "2024"))
	assert.Equal(t, models.Year(""), ToggleYear("2024", "2024"))
	assert.Equal(t, models.Year("2023"), ToggleYear("2024", "2023"))
}
