package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openTemp(t *testing.T, ttl time.Duration) *BoltCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"), "docs", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBoltCache_PutGet(t *testing.T) {
	t.Parallel()
	c := openTemp(t, time.Hour)

	require.NoError(t, c.Put("a", doc{Name: "alpha", Count: 3}))

	var got doc
	fresh, err := c.Get("a", &got)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, doc{Name: "alpha", Count: 3}, got)
}

func TestBoltCache_Miss(t *testing.T) {
	t.Parallel()
	c := openTemp(t, time.Hour)

	var got doc
	_, err := c.Get("missing", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestBoltCache_StaleEntryStillDecodes(t *testing.T) {
	t.Parallel()
	c := openTemp(t, time.Minute)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }
	require.NoError(t, c.Put("a", doc{Name: "alpha"}))

	c.now = func() time.Time { return start.Add(2 * time.Minute) }
	var got doc
	fresh, err := c.Get("a", &got)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, "alpha", got.Name)
}

func TestBoltCache_Delete(t *testing.T) {
	t.Parallel()
	c := openTemp(t, 0)

	require.NoError(t, c.Put("a", doc{Name: "alpha"}))
	require.NoError(t, c.Delete("a"))

	var got doc
	_, err := c.Get("a", &got)
	assert.ErrorIs(t, err, ErrMiss)
}
