package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNilCallback(t *testing.T) {
	t.Parallel()

	w, err := New(0, nil, nil, nil)
	require.ErrorIs(t, err, os.ErrInvalid)
	assert.Nil(t, w)
}

func TestNew_RejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := New(0, []string{"[unclosed"}, nil, func([]string) {})
	require.Error(t, err)
}

func TestWatcher_Matches(t *testing.T) {
	t.Parallel()

	w, err := New(0, []string{"*.csv", "projects.json"}, []string{"*.tmp*"}, func([]string) {})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	assert.True(t, w.matches("/data/loc.csv"))
	assert.True(t, w.matches("/data/projects.json"))
	assert.False(t, w.matches("/data/notes.txt"))
	assert.False(t, w.matches("/data/loc.csv.tmp123"))
}

func TestWatcher_ReportsDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "loc.csv")
	require.NoError(t, os.WriteFile(logPath, []byte("commit\n"), 0o644))

	changed := make(chan []string, 4)
	w, err := New(100*time.Millisecond, []string{"*.csv"}, nil, func(paths []string) {
		changed <- paths
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, w.Watch(logPath))

	require.NoError(t, os.WriteFile(logPath, []byte("commit\na1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))

	select {
	case paths := <-changed:
		assert.Equal(t, []string{logPath}, paths)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}
