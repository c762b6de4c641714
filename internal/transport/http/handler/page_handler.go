package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/dto"
	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
	apperrors "github.com/bravo68web/folio/pkg/errors"
	"github.com/bravo68web/folio/pkg/logger"
)

const (
	homeProjects = 3
	pieRadius    = 50
)

// PageHandler renders the HTML pages of the site
type PageHandler struct {
	site       *Site
	meta       *service.MetaService
	projects   *service.ProjectService
	profiles   *service.ProfileService
	githubUser string
	log        *logger.Logger
}

// NewPageHandler creates a new PageHandler instance. profiles may be nil,
// which hides the GitHub data.
func NewPageHandler(
	site *Site,
	meta *service.MetaService,
	projects *service.ProjectService,
	profiles *service.ProfileService,
	githubUser string,
) *PageHandler {
	return &PageHandler{
		site:       site,
		meta:       meta,
		projects:   projects,
		profiles:   profiles,
		githubUser: githubUser,
		log:        logger.Get().WithFields(logger.Component("pages")),
	}
}

// Funcs returns the helpers available to every page template
func (h *PageHandler) Funcs() template.FuncMap {
	return template.FuncMap{
		"url":      h.site.URL,
		"comma":    func(n int) string { return humanize.Comma(int64(n)) },
		"ago":      humanize.Time,
		"fulldate": meta.FullDate,
		"date":     func(t time.Time) string { return t.Format("Jan 2, 2006") },
	}
}

type errorPage struct {
	Layout
	Status  int
	Message string
}

// renderError renders the error page with the status of err
func (h *PageHandler) renderError(c *gin.Context, layout Layout, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong."
	if appErr, ok := apperrors.As(err); ok {
		status = appErr.HTTPStatus()
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("Failed to render page",
			logger.Path(c.Request.URL.Path),
			logger.RequestID(c.GetString("request_id")),
			logger.Error(err),
		)
	}
	_ = c.Error(err)

	layout.Title = http.StatusText(status)
	c.HTML(status, "error.html", errorPage{Layout: layout, Status: status, Message: message})
}

// NotFound renders the 404 page, or a JSON error under the API prefix
func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.Contains(c.Request.URL.Path, "/api/") {
		handleError(c, apperrors.NotFound("route "+c.Request.URL.Path, apperrors.ErrNotFound))
		return
	}
	h.renderError(c, h.site.Layout(c, "Not Found", ""), apperrors.NotFound("page", apperrors.ErrNotFound))
}

type homePage struct {
	Layout
	Projects []models.Project
	Profile  *models.Profile
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	latest := h.projects.All()
	if len(latest) > homeProjects {
		latest = latest[:homeProjects]
	}

	data := homePage{Layout: h.site.Layout(c, "Home", ""), Projects: latest}
	if h.profiles != nil && h.githubUser != "" {
		profile, err := h.profiles.Profile(c.Request.Context(), h.githubUser)
		if err == nil {
			data.Profile = profile
		}
	}
	c.HTML(http.StatusOK, "home.html", data)
}

// Contact handles GET /contact/
func (h *PageHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", h.site.Layout(c, "Contact", "contact/"))
}

// Resume handles GET /resume/
func (h *PageHandler) Resume(c *gin.Context) {
	c.HTML(http.StatusOK, "resume.html", h.site.Layout(c, "Resume", "resume/"))
}

type shareView struct {
	models.LanguageShare
	Color string
}

type stepView struct {
	models.Step
	Href   string
	Active bool
}

type metaPage struct {
	Layout
	Stats     []models.Stat
	Chart     template.HTML
	View      meta.ViewState
	Commits   int
	Breakdown []shareView
	Steps     []stepView
	Progress  string
	Brush     *meta.Selection
	Position  position
	PrevHref  string
	NextHref  string
	ClearHref string
	ChartHref string
}

// position is the query parameter that pins the timeline of a view: the
// step when one is entered, the exact progress otherwise
type position struct {
	Name  string
	Value string
}

func viewPosition(v meta.ViewState) position {
	if v.Step >= 0 {
		return position{Name: "step", Value: strconv.Itoa(v.Step)}
	}
	return position{Name: "progress", Value: formatCoord(v.Progress)}
}

// metaQuery reads the dashboard query string
func metaQuery(c *gin.Context) (meta.Query, error) {
	var req dto.MetaQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return meta.Query{}, bindError(err)
	}
	return req.ToQuery()
}

// brushValues encodes b as the x0, y0, x1, y1 query parameters
func brushValues(b *meta.Selection) url.Values {
	q := url.Values{}
	if b == nil {
		return q
	}
	q.Set("x0", formatCoord(b.X0))
	q.Set("y0", formatCoord(b.Y0))
	q.Set("x1", formatCoord(b.X1))
	q.Set("y1", formatCoord(b.Y1))
	return q
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// adjacentSteps returns the steps before and after the view, or -1. A
// step-driven view moves by one; otherwise the neighbors are found by
// progress.
func adjacentSteps(v meta.ViewState) (prev, next int) {
	prev, next = -1, -1
	if v.Step >= 0 {
		if v.Step > 0 {
			prev = v.Step - 1
		}
		if v.Step+1 < len(v.Steps) {
			next = v.Step + 1
		}
		return prev, next
	}
	for i, s := range v.Steps {
		if s.Progress < v.Progress {
			prev = i
		}
		if s.Progress > v.Progress && next < 0 {
			next = i
		}
	}
	return prev, next
}

// Meta handles GET /meta/
func (h *PageHandler) Meta(c *gin.Context) {
	layout := h.site.Layout(c, "Meta", "meta/")

	q, err := metaQuery(c)
	if err != nil {
		h.renderError(c, layout, err)
		return
	}
	v, err := h.meta.View(q)
	if err != nil {
		h.renderError(c, layout, err)
		return
	}
	ds, err := h.meta.Dataset()
	if err != nil {
		h.renderError(c, layout, err)
		return
	}

	var svg bytes.Buffer
	if err := meta.RenderSVG(&svg, v); err != nil {
		h.renderError(c, layout, apperrors.InternalError("render scatter", err))
		return
	}

	stepHref := func(i int) string {
		q := brushValues(v.Brush)
		q.Set("step", strconv.Itoa(i))
		return h.site.URLWithQuery("meta/", q)
	}

	pos := viewPosition(v)
	chartQuery := brushValues(v.Brush)
	chartQuery.Set(pos.Name, pos.Value)

	unbrushed := url.Values{}
	unbrushed.Set(pos.Name, pos.Value)

	data := metaPage{
		Layout:    layout,
		Stats:     meta.Stats(ds.Rows, ds.Commits),
		Chart:     template.HTML(svg.String()),
		View:      v,
		Commits:   len(v.Filtered),
		Progress:  strconv.FormatFloat(v.Progress, 'f', 0, 64),
		Brush:     v.Brush,
		Position:  pos,
		ChartHref: h.site.URLWithQuery("meta/chart.svg", chartQuery),
	}
	if v.Brush != nil {
		data.ClearHref = h.site.URLWithQuery("meta/", unbrushed)
	}

	palette := ds.Palette()
	for _, share := range v.Breakdown {
		data.Breakdown = append(data.Breakdown, shareView{LanguageShare: share, Color: palette.Color(share.Type)})
	}
	for _, s := range v.Steps {
		data.Steps = append(data.Steps, stepView{Step: s, Href: stepHref(s.Index), Active: s.Index == v.Step})
	}
	prev, next := adjacentSteps(v)
	if prev >= 0 {
		data.PrevHref = stepHref(prev)
	}
	if next >= 0 {
		data.NextHref = stepHref(next)
	}

	c.HTML(http.StatusOK, "meta.html", data)
}

// MetaChart handles GET /meta/chart.svg
func (h *PageHandler) MetaChart(c *gin.Context) {
	q, err := metaQuery(c)
	if err != nil {
		handleError(c, err)
		return
	}
	v, err := h.meta.View(q)
	if err != nil {
		handleError(c, err)
		return
	}

	var svg bytes.Buffer
	if err := meta.RenderSVG(&svg, v); err != nil {
		handleError(c, apperrors.InternalError("render scatter", err))
		return
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", svg.Bytes())
}

type sliceView struct {
	models.YearCount
	Path     string
	Href     string
	Selected bool
}

type projectsPage struct {
	Layout
	Query     string
	Year      string
	Total     int
	Projects  []models.Project
	Slices    []sliceView
	ViewBox   string
	ClearHref string
}

// Projects handles GET /projects/
func (h *PageHandler) Projects(c *gin.Context) {
	layout := h.site.Layout(c, "Projects", "projects/")

	var req dto.ProjectQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.renderError(c, layout, bindError(err))
		return
	}
	current := models.Year(strings.TrimSpace(req.Year))
	list := h.projects.List(req.Query, current)

	values := make([]float64, len(list.Years))
	for i, y := range list.Years {
		values[i] = float64(y.Count)
	}
	arcs := chart.Pie(values)

	data := projectsPage{
		Layout:   layout,
		Query:    list.Query,
		Year:     string(current),
		Total:    list.Total,
		Projects: list.Projects,
		ViewBox:  fmt.Sprintf("%d %d %d %d", -pieRadius, -pieRadius, 2*pieRadius, 2*pieRadius),
	}
	for i, y := range list.Years {
		q := url.Values{}
		if list.Query != "" {
			q.Set("q", list.Query)
		}
		if next := service.ToggleYear(current, y.Year); next != "" {
			q.Set("year", string(next))
		}
		data.Slices = append(data.Slices, sliceView{
			YearCount: y,
			Path:      arcs[i].Path(pieRadius),
			Href:      h.site.URLWithQuery("projects/", q),
			Selected:  y.Year == current,
		})
	}
	if current != "" {
		q := url.Values{}
		if list.Query != "" {
			q.Set("q", list.Query)
		}
		data.ClearHref = h.site.URLWithQuery("projects/", q)
	}

	c.HTML(http.StatusOK, "projects.html", data)
}

type githubPage struct {
	Layout
	Username string
	Profile  *models.Profile
	Error    string
}

// GitHub handles GET /github/
func (h *PageHandler) GitHub(c *gin.Context) {
	data := githubPage{Layout: h.site.Layout(c, "GitHub", "github/"), Username: h.githubUser}
	if h.profiles == nil || h.githubUser == "" {
		data.Error = "No GitHub account is configured."
		c.HTML(http.StatusOK, "github.html", data)
		return
	}

	profile, err := h.profiles.Profile(c.Request.Context(), h.githubUser)
	if err != nil {
		status := http.StatusBadGateway
		if appErr, ok := apperrors.As(err); ok {
			status = appErr.HTTPStatus()
		}
		data.Error = "GitHub data is unavailable right now."
		c.HTML(status, "github.html", data)
		return
	}
	data.Profile = profile
	c.HTML(http.StatusOK, "github.html", data)
}
