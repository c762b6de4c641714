package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/infrastructure/storage"
)

const sampleLog = `commit,file,line,depth,length,date,time,timezone,author,datetime,type
a1,x.js,1,0,12,2024-01-01,09:00,+00:00,dylan,2024-01-01T09:00,js
a1,x.js,2,1,20,2024-01-01,09:00,+00:00,dylan,2024-01-01T09:00,js
b2,y.css,1,0,8,2024-01-02,14:30,+00:00,dylan,2024-01-02T14:30,css
`

const sampleProjects = `[
  {"title": "Lab 1", "image": "img/a.png", "description": "Personal site", "year": "2024"},
  {"title": "Weather App", "image": "img/b.png", "description": "Forecasts with D3", "year": 2023},
  {"title": "Budget Tool", "image": "img/c.png", "description": "Spreadsheet import", "year": "2024", "url": "https://example.com"}
]`

func newTempStorage(t *testing.T, files map[string]string) *storage.FilesystemStorage {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	s, err := storage.NewFilesystemStorage(dir)
	require.NoError(t, err)
	return s
}

func newTestMetaService(t *testing.T, files map[string]string) (*MetaService, *storage.FilesystemStorage) {
	t.Helper()
	store := newTempStorage(t, files)
	svc, err := NewMetaService(store, nil, &config.MetaConfig{
		LogPath:       "loc.csv",
		Source:        "storage",
		CommitURLBase: "https://example.com/commit/",
		Timezone:      "UTC",
	})
	require.NoError(t, err)
	return svc, store
}

func writeFile(t *testing.T, s *storage.FilesystemStorage, name, content string) {
	t.Helper()
	require.NoError(t, s.WriteFile(context.Background(), name, []byte(content)))
}
