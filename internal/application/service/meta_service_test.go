package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/meta"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

func TestMetaService_NotLoaded(t *testing.T) {
	t.Parallel()
	svc, _ := newTestMetaService(t, nil)

	assert.False(t, svc.Ready())

	_, err := svc.Dataset()
	assert.True(t, apperrors.IsNotLoaded(err))

	_, err = svc.View(meta.Query{})
	assert.True(t, apperrors.IsNotLoaded(err))
}

func TestMetaService_Load(t *testing.T) {
	t.Parallel()
	svc, _ := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})

	summary, err := svc.Load(context.Background(), TriggerStartup)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Loaded)
	assert.Zero(t, summary.Skipped)
	assert.True(t, svc.Ready())

	ds, err := svc.Dataset()
	require.NoError(t, err)
	require.Len(t, ds.Commits, 2)
	assert.Equal(t, "https://example.com/commit/a1", ds.Commits[0].URL)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, "3", stats[1].Value)
}

func TestMetaService_LoadMissingLogKeepsPreviousDataset(t *testing.T) {
	t.Parallel()
	svc, store := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})
	ctx := context.Background()

	_, err := svc.Load(ctx, TriggerStartup)
	require.NoError(t, err)

	require.NoError(t, store.DeleteFile(ctx, "loc.csv"))
	_, err = svc.Load(ctx, TriggerAdmin)
	require.Error(t, err)
	assert.True(t, apperrors.IsLoadFailed(err))
	assert.True(t, errors.Is(err, meta.ErrUnavailable))

	ds, err := svc.Dataset()
	require.NoError(t, err)
	assert.Len(t, ds.Commits, 2)
}

func TestMetaService_LoadMalformed(t *testing.T) {
	t.Parallel()
	svc, _ := newTestMetaService(t, map[string]string{"loc.csv": "file,line\nx.js,1\n"})

	_, err := svc.Load(context.Background(), TriggerStartup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, meta.ErrMalformed))
	assert.False(t, svc.Ready())
}

func TestMetaService_RefreshSkipsUnchanged(t *testing.T) {
	t.Parallel()
	svc, store := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})
	ctx := context.Background()

	changed, err := svc.Refresh(ctx, TriggerCron)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.Refresh(ctx, TriggerCron)
	require.NoError(t, err)
	assert.False(t, changed)

	extra := sampleLog + "c3,z.go,1,0,4,2024-01-03,10:00,+00:00,dylan,2024-01-03T10:00,go\n"
	writeFile(t, store, "loc.csv", extra)
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(store.LocalPath("loc.csv"), future, future))

	changed, err = svc.Refresh(ctx, TriggerCron)
	require.NoError(t, err)
	assert.True(t, changed)

	ds, err := svc.Dataset()
	require.NoError(t, err)
	assert.Len(t, ds.Commits, 3)
}

func TestMetaService_ViewStepOutOfRange(t *testing.T) {
	t.Parallel()
	svc, _ := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})
	_, err := svc.Load(context.Background(), TriggerStartup)
	require.NoError(t, err)

	_, err = svc.View(meta.Query{}.WithStep(5))
	assert.True(t, apperrors.IsBadRequest(err))

	v, err := svc.View(meta.Query{}.WithStep(0))
	require.NoError(t, err)
	assert.Len(t, v.Filtered, 1)
}

func TestMetaService_CommitRows(t *testing.T) {
	t.Parallel()
	svc, _ := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})
	_, err := svc.Load(context.Background(), TriggerStartup)
	require.NoError(t, err)

	commit, rows, err := svc.CommitRows("a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", commit.ID)
	assert.Equal(t, 2, commit.TotalLines)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].Line)

	_, _, err = svc.CommitRows("zz")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMetaService_CommitRowsFollowsReload(t *testing.T) {
	t.Parallel()
	svc, store := newTestMetaService(t, map[string]string{"loc.csv": sampleLog})
	ctx := context.Background()
	_, err := svc.Load(ctx, TriggerStartup)
	require.NoError(t, err)

	writeFile(t, store, "loc.csv", `commit,file,line,depth,length,date,time,timezone,author,datetime,type
c3,z.go,1,0,8,2024-02-01,10:00,+00:00,dylan,2024-02-01T10:00,go
`)
	_, err = svc.Load(ctx, TriggerAdmin)
	require.NoError(t, err)

	_, _, err = svc.CommitRows("a1")
	assert.True(t, apperrors.IsNotFound(err))

	commit, rows, err := svc.CommitRows("c3")
	require.NoError(t, err)
	assert.Equal(t, "c3", commit.ID)
	assert.Equal(t, len(rows), commit.TotalLines)
}

func TestNewMetaService_Validation(t *testing.T) {
	t.Parallel()
	store := newTempStorage(t, nil)

	_, err := NewMetaService(store, nil, &config.MetaConfig{Source: "database"})
	require.Error(t, err)

	_, err = NewMetaService(store, nil, &config.MetaConfig{Timezone: "Mars/Olympus"})
	require.Error(t, err)
}
