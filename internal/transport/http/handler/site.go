package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/config"
)

// ThemeCookie persists the selected color scheme
const ThemeCookie = "color-scheme"

// ThemeAuto follows the visitor's system preference
const ThemeAuto = "light dark"

// ThemeOption is one entry of the theme select
type ThemeOption struct {
	Value    string
	Label    string
	Selected bool
}

var themes = []ThemeOption{
	{Value: ThemeAuto, Label: "Automatic"},
	{Value: "light", Label: "Light"},
	{Value: "dark", Label: "Dark"},
}

// NormalizeTheme returns scheme when it is a known theme and ThemeAuto otherwise
func NormalizeTheme(scheme string) string {
	for _, t := range themes {
		if t.Value == scheme {
			return scheme
		}
	}
	return ThemeAuto
}

// NavLink is one entry of the site navigation
type NavLink struct {
	Title    string
	Href     string
	Current  bool
	External bool
}

type page struct {
	Title string
	Path  string // relative to the base path
}

// pages in navigation order
var pages = []page{
	{Title: "Home", Path: ""},
	{Title: "Projects", Path: "projects/"},
	{Title: "Contact", Path: "contact/"},
	{Title: "Resume", Path: "resume/"},
	{Title: "Meta", Path: "meta/"},
	{Title: "GitHub", Path: "github/"},
}

// Site builds links and the shared layout of every page
type Site struct {
	config   config.SiteConfig
	basePath string
}

// NewSite creates a Site rooted at basePath
func NewSite(cfg config.SiteConfig, basePath string) *Site {
	return &Site{config: cfg, basePath: NormalizeBasePath(basePath)}
}

// NormalizeBasePath returns p with exactly one leading and one trailing slash
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// BasePath returns the prefix of every internal link
func (s *Site) BasePath() string { return s.basePath }

// URL prefixes an internal path with the base path. Absolute URLs are
// returned unchanged.
func (s *Site) URL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return s.basePath + strings.TrimPrefix(path, "/")
}

// URLWithQuery is URL with an encoded query string
func (s *Site) URLWithQuery(path string, q url.Values) string {
	u := s.URL(path)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Nav returns the navigation with the page at current marked
func (s *Site) Nav(current string) []NavLink {
	links := make([]NavLink, 0, len(pages)+1)
	for _, p := range pages {
		links = append(links, NavLink{
			Title:   p.Title,
			Href:    s.URL(p.Path),
			Current: p.Path == current,
		})
	}
	if s.config.GitHubURL != "" {
		links = append(links, NavLink{Title: "Profile", Href: s.config.GitHubURL, External: true})
	}
	return links
}

// Layout is the data every page template receives
type Layout struct {
	Site     config.SiteConfig
	Title    string
	BasePath string
	Nav      []NavLink
	Theme    string
	Themes   []ThemeOption
	Return   string // where the theme form redirects back to
}

// Layout builds the shared page data for the request
func (s *Site) Layout(c *gin.Context, title, current string) Layout {
	theme := ThemeAuto
	if v, err := c.Cookie(ThemeCookie); err == nil {
		theme = NormalizeTheme(v)
	}

	opts := make([]ThemeOption, len(themes))
	for i, t := range themes {
		t.Selected = t.Value == theme
		opts[i] = t
	}

	return Layout{
		Site:     s.config,
		Title:    title,
		BasePath: s.basePath,
		Nav:      s.Nav(current),
		Theme:    theme,
		Themes:   opts,
		Return:   c.Request.URL.RequestURI(),
	}
}

// SetTheme handles POST /theme
func (s *Site) SetTheme(c *gin.Context) {
	scheme := NormalizeTheme(c.PostForm("scheme"))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ThemeCookie, scheme, 365*24*60*60, s.basePath, "", false, false)

	back := c.PostForm("return")
	if back == "" || !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = s.basePath
	}
	c.Redirect(http.StatusSeeOther, back)
}
