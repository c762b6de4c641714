package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutputWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "folio.log")
	l, err := New(&Config{Level: "info", Output: OutputFile, Format: "json", FilePath: path})
	require.NoError(t, err)

	l.Info("dataset loaded", Rows(3), Skipped(1))
	l.Debug("not written")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"dataset loaded"`)
	assert.Contains(t, string(data), `"rows":3`)
	assert.NotContains(t, string(data), "not written")
}

func TestRotatingFileRotatesAndPrunes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := &rotatingFile{path: filepath.Join(dir, "app.log"), maxSizeMB: 1, maxBackups: 1}
	chunk := []byte(strings.Repeat("x", 700*1024))

	for i := 0; i < 3; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	backups, err := filepath.Glob(filepath.Join(dir, "app-*.log"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	info, err := os.Stat(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "warn", lvl.String())

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
