package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/infrastructure/cache"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

type fakeFetcher struct {
	calls   int
	profile *models.Profile
	err     error
}

func (f *fakeFetcher) FetchProfile(_ context.Context, username string) (*models.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	p.Login = username
	return &p, nil
}

func openCache(t *testing.T, ttl time.Duration) *cache.BoltCache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "github.db"), "profiles", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestProfileService_CachesProfiles(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{profile: &models.Profile{Followers: 7}}
	svc := NewProfileService(fetcher, openCache(t, time.Hour))
	ctx := context.Background()

	p, err := svc.Profile(ctx, "Dylan-Vo05")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Followers)

	p, err = svc.Profile(ctx, "dylan-vo05")
	require.NoError(t, err)
	assert.Equal(t, "Dylan-Vo05", p.Login)
	assert.Equal(t, 1, fetcher.calls)
}

func TestProfileService_ServesStaleOnUpstreamError(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{profile: &models.Profile{Followers: 3}}
	svc := NewProfileService(fetcher, openCache(t, time.Nanosecond))
	ctx := context.Background()

	_, err := svc.Profile(ctx, "octocat")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	fetcher.err = apperrors.Upstream("github", errors.New("boom"))
	p, err := svc.Profile(ctx, "octocat")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Followers)
	assert.Equal(t, 2, fetcher.calls)
}

func TestProfileService_Errors(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{err: apperrors.NotFound("github user ghost", apperrors.ErrNotFound)}
	svc := NewProfileService(fetcher, nil)

	_, err := svc.Profile(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Profile(context.Background(), "  ")
	assert.True(t, apperrors.IsBadRequest(err))
}
