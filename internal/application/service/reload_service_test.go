package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/config"
)

func TestReloadService_ReloadsBoth(t *testing.T) {
	t.Parallel()
	metaSvc, store := newTestMetaService(t, map[string]string{
		"loc.csv":       sampleLog,
		"projects.json": sampleProjects,
	})
	projects := NewProjectService(store, &config.ProjectsConfig{Path: "projects.json"})
	svc := NewReloadService(metaSvc, projects)

	result, err := svc.Reload(context.Background(), TriggerAdmin)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Meta.Loaded)
	assert.Equal(t, 3, result.Projects)
	assert.True(t, result.Changed)

	result, err = svc.Refresh(context.Background(), TriggerCron)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 3, result.Meta.Loaded)
}

func TestReloadService_ProjectFailureIsReported(t *testing.T) {
	t.Parallel()
	metaSvc, store := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})
	projects := NewProjectService(store, &config.ProjectsConfig{Path: "projects.json"})
	svc := NewReloadService(metaSvc, projects)

	_, err := svc.Reload(context.Background(), TriggerAdmin)
	require.Error(t, err)
	assert.True(t, metaSvc.Ready())
}

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context, string) (ReloadResult, error) {
	c.calls.Add(1)
	return ReloadResult{Changed: true}, c.err
}

func TestRefreshCronService_StartStop(t *testing.T) {
	t.Parallel()
	refresher := &countingRefresher{err: errors.New("transient")}
	cron := NewRefreshCronService(refresher, 10*time.Millisecond)

	cron.Start()
	cron.Start()
	assert.True(t, cron.IsRunning())

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cron.Stop()
	assert.False(t, cron.IsRunning())
	calls := refresher.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, refresher.calls.Load())

	cron.Start()
	assert.True(t, cron.IsRunning())
	cron.Stop()
}
