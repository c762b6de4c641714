package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/injectable"
	"github.com/bravo68web/folio/internal/server"
)

const testLog = `commit,file,line,depth,length,date,time,timezone,author,datetime,type
a1,x.js,1,0,12,2024-01-01,09:00,+00:00,dylan,2024-01-01T09:00,js
a1,x.js,2,1,20,2024-01-01,09:00,+00:00,dylan,2024-01-01T09:00,js
b2,y.css,1,0,8,2024-01-02,14:30,+00:00,dylan,2024-01-02T14:30,css
`

const testProjects = `[
  {"title": "Lab 1", "image": "img/a.png", "description": "Personal site", "year": "2024"},
  {"title": "Weather App", "image": "img/b.png", "description": "Forecasts with D3", "year": 2023},
  {"title": "Budget Tool", "image": "img/c.png", "description": "Spreadsheet import", "year": "2024"}
]`

type testSite struct {
	server *server.Server
	deps   *injectable.Dependencies
}

func newTestSite(t *testing.T, basePath string, load bool) *testSite {
	t.Helper()
	return newTestSiteWithLog(t, basePath, testLog, load)
}

func newTestSiteWithLog(t *testing.T, basePath, log string, load bool) *testSite {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loc.csv"), []byte(log), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte(testProjects), 0o644))

	cfg := &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: "test", BasePath: basePath},
		Site:     config.SiteConfig{Title: "Portfolio", Author: "Dylan Vo"},
		Meta:     config.MetaConfig{LogPath: "loc.csv", Source: "storage", Timezone: "UTC", CommitURLBase: "https://example.com/commit/"},
		Projects: config.ProjectsConfig{Path: "projects.json"},
		Storage:  config.StorageConfig{Type: "filesystem", BasePath: dir},
		GitHub:   config.GitHubConfig{CachePath: filepath.Join(dir, "cache.db"), CacheTTL: time.Minute, Timeout: time.Second},
		Admin:    config.AdminConfig{Enabled: true, JWTSecret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour},
	}

	deps, err := injectable.LoadDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	if load {
		_, err := deps.ReloadService.Reload(context.Background(), service.TriggerStartup)
		require.NoError(t, err)
	}

	srv := server.New(cfg, nil)
	require.NoError(t, NewRouter(srv, deps).RegisterRoutes())
	return &testSite{server: srv, deps: deps}
}

func (s *testSite) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)
	return w
}

func (s *testSite) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return s.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestReadinessBeforeLoad(t *testing.T) {
	site := newTestSite(t, "/", false)

	assert.Equal(t, http.StatusOK, site.get(t, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, site.get(t, "/health/ready").Code)

	w := site.get(t, "/api/v1/meta/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service_unavailable")
}

func TestMetaAPI(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.get(t, "/health/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"commits":2`)

	w = site.get(t, "/api/v1/meta/commits")
	require.Equal(t, http.StatusOK, w.Code)
	var commits dto.CommitListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commits))
	assert.Equal(t, 2, commits.Total)

	w = site.get(t, "/api/v1/meta/commits/a1/rows")
	require.Equal(t, http.StatusOK, w.Code)
	var rows dto.CommitRowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows.Rows, 2)
	assert.Equal(t, "a1", rows.Commit.ID)
	assert.Equal(t, 2, rows.Commit.TotalLines)

	assert.Equal(t, http.StatusNotFound, site.get(t, "/api/v1/meta/commits/zz/rows").Code)
}

func TestMetaViewBrush(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.get(t, "/api/v1/meta/view?x0=0&y0=0&x1=1000&y1=600")
	require.Equal(t, http.StatusOK, w.Code)

	var view dto.ViewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "2 commits selected", view.CountLabel)
	assert.ElementsMatch(t, []string{"a1", "b2"}, view.Selected)
	assert.NotEmpty(t, view.Breakdown)
}

func TestMetaViewRejectsBadQueries(t *testing.T) {
	site := newTestSite(t, "/", true)

	for _, target := range []string{
		"/api/v1/meta/view?step=9",
		"/api/v1/meta/view?x0=1&y0=2",
		"/api/v1/meta/view?cutoff=yesterday",
		"/api/v1/meta/view?progress=lots",
	} {
		assert.Equal(t, http.StatusBadRequest, site.get(t, target).Code, target)
	}
}

func TestProjectsAPI(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.get(t, "/api/v1/projects?year=2024")
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.ProjectListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Years, 2)

	w = site.get(t, "/api/v1/projects/chart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"series"`)
}

func TestAdminReloadRequiresToken(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := site.deps.TokenService.Issue("ops", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = site.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ReloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, service.TriggerAdmin, resp.Trigger)
	assert.Equal(t, 3, resp.Projects)
}

func TestPages(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.get(t, "/meta/?progress=100")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="selection-count"`)
	assert.Contains(t, w.Body.String(), "<svg")

	w = site.get(t, "/meta/chart.svg")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "image/svg+xml")

	w = site.get(t, "/projects/?year=2024")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2 Projects")

	assert.Equal(t, http.StatusOK, site.get(t, "/").Code)
	assert.Equal(t, http.StatusOK, site.get(t, "/contact/").Code)
	assert.Equal(t, http.StatusOK, site.get(t, "/static/style.css").Code)
}

func TestMetaPageBrushKeepsStep(t *testing.T) {
	// the middle commit sits at a fractional progress well below 1
	const log = `commit,file,line,depth,length,date,time,timezone,author,datetime,type
a1,x.js,1,0,12,2024-01-01,00:00,+00:00,dylan,2024-01-01T00:00,js
b2,y.css,1,0,8,2024-01-01,00:10,+00:00,dylan,2024-01-01T00:10,css
c3,z.go,1,0,8,2024-01-04,00:00,+00:00,dylan,2024-01-04T00:00,go
`
	site := newTestSiteWithLog(t, "/", log, true)

	w := site.get(t, "/meta/?step=1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<p>2 commits</p>")
	assert.Contains(t, body, `href="/meta/chart.svg?step=1"`)

	form := body[strings.Index(body, `id="brush"`):]
	m := regexp.MustCompile(`<input type="hidden" name="([^"]+)" value="([^"]*)">`).FindStringSubmatch(form)
	require.Len(t, m, 3)
	assert.Equal(t, "step", m[1])
	assert.Equal(t, "1", m[2])

	q := url.Values{m[1]: {m[2]}, "x0": {"0"}, "y0": {"0"}, "x1": {"1000"}, "y1": {"600"}}
	w = site.get(t, "/meta/?"+q.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "<p>2 commits</p>")
	assert.Contains(t, body, "2 commits selected")
}

func TestPagesUnderBasePath(t *testing.T) {
	site := newTestSite(t, "/portfolio", true)

	w := site.get(t, "/portfolio/meta/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/portfolio/projects/"`)

	assert.Equal(t, http.StatusOK, site.get(t, "/portfolio/api/v1/meta/stats").Code)
	assert.Equal(t, http.StatusNotFound, site.get(t, "/meta/").Code)
}

func TestSetTheme(t *testing.T) {
	site := newTestSite(t, "/", true)

	form := url.Values{"scheme": {"dark"}, "return": {"/meta/"}}
	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := site.do(t, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/meta/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "color-scheme=dark")

	form.Set("return", "//evil.example")
	req = httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, "/", site.do(t, req).Header().Get("Location"))
}

func TestNotFound(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.get(t, "/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	w = site.get(t, "/nothing/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestOpenAPIDocument(t *testing.T) {
	site := newTestSite(t, "/", true)

	w := site.get(t, "/docs/openapi.json")
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/v1/meta/commits/{id}/rows")
	assert.Contains(t, paths, "/api/v1/admin/reload")
	assert.NotContains(t, paths, "/meta/")
	assert.Contains(t, w.Body.String(), "bearerAuth")

	w = site.get(t, "/docs/openapi.yaml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestMetricsEndpoint(t *testing.T) {
	site := newTestSite(t, "/", true)
	site.get(t, "/api/v1/meta/stats")

	w := site.get(t, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "folio_http_requests_total")
}
