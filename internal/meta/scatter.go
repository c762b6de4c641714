package meta

import (
	"fmt"
	"sort"
	"time"

	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
)

// Plot geometry in SVG user units
const (
	PlotWidth  = 1000
	PlotHeight = 600

	MinRadius = 2
	MaxRadius = 30

	// XTicks is the tick count the time axis is niced against
	XTicks = 10
)

// Margin is the space reserved around the plotting area for axes
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargin leaves room for the hour labels on the left and dates below
var DefaultMargin = Margin{Top: 10, Right: 10, Bottom: 30, Left: 40}

// Plot holds the three scales of the commit scatterplot
type Plot struct {
	Width, Height float64
	Margin        Margin

	X chart.Time   // commit datetime to horizontal position
	Y chart.Linear // hour of day to vertical position, 0:00 at the bottom
	R chart.Sqrt   // total lines to radius
}

// NewPlot builds the scales. The time axis spans all commits so it stays put
// while the timeline filters; the radius domain comes from visible only.
func NewPlot(all, visible []models.Commit) Plot {
	m := DefaultMargin
	p := Plot{Width: PlotWidth, Height: PlotHeight, Margin: m}

	var start, end time.Time
	for i, c := range all {
		if i == 0 || c.Datetime.Before(start) {
			start = c.Datetime
		}
		if i == 0 || c.Datetime.After(end) {
			end = c.Datetime
		}
	}
	p.X = chart.NewTime(start, end, m.Left, p.Width-m.Right).Nice(XTicks)
	p.Y = chart.NewLinear(0, 24, p.Height-m.Bottom, m.Top)

	minLines, maxLines := 0, 0
	for i, c := range visible {
		if i == 0 || c.TotalLines < minLines {
			minLines = c.TotalLines
		}
		if i == 0 || c.TotalLines > maxLines {
			maxLines = c.TotalLines
		}
	}
	p.R = chart.NewSqrt(float64(minLines), float64(maxLines), MinRadius, MaxRadius)
	return p
}

// UsableWidth is the width of the plotting area inside the margins
func (p Plot) UsableWidth() float64 { return p.Width - p.Margin.Left - p.Margin.Right }

// UsableHeight is the height of the plotting area inside the margins
func (p Plot) UsableHeight() float64 { return p.Height - p.Margin.Top - p.Margin.Bottom }

// Position returns the screen coordinates of a commit's point
func (p Plot) Position(c models.Commit) (x, y float64) {
	return p.X.Map(c.Datetime), p.Y.Map(c.HourFrac)
}

// Tooltip is what hovering a point reveals
type Tooltip struct {
	ID   string `json:"id"`
	Link string `json:"link"`
	Date string `json:"date"`
}

// FullDate formats t like "Monday, January 1, 2024"
func FullDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// Point is one drawn commit. Points are keyed by commit id.
type Point struct {
	ID       string  `json:"id"`
	CX       float64 `json:"cx"`
	CY       float64 `json:"cy"`
	R        float64 `json:"r"`
	Lines    int     `json:"lines"`
	Selected bool    `json:"selected"`
	Tooltip  Tooltip `json:"tooltip"`
}

// Points lays out commits largest first so that smaller points are drawn
// on top and stay hoverable. Ties keep aggregation order.
func (p Plot) Points(commits []models.Commit, brush *Selection) []Point {
	points := make([]Point, len(commits))
	for i, c := range commits {
		x, y := p.Position(c)
		points[i] = Point{
			ID:       c.ID,
			CX:       x,
			CY:       y,
			R:        p.R.Map(float64(c.TotalLines)),
			Lines:    c.TotalLines,
			Selected: brush.Contains(x, y),
			Tooltip:  Tooltip{ID: c.ID, Link: c.URL, Date: FullDate(c.Datetime)},
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Lines > points[j].Lines })
	return points
}

// Selection is a brushed rectangle in screen coordinates, corners normalized
// so that X0 <= X1 and Y0 <= Y1.
type Selection struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewSelection builds a Selection from any two opposite corners
func NewSelection(x0, y0, x1, y1 float64) *Selection {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return &Selection{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Contains reports whether (x, y) lies inside the box, edges included.
// A nil selection contains nothing.
func (s *Selection) Contains(x, y float64) bool {
	if s == nil {
		return false
	}
	return x >= s.X0 && x <= s.X1 && y >= s.Y0 && y <= s.Y1
}

// Width and Height of the box
func (s *Selection) Width() float64  { return s.X1 - s.X0 }
func (s *Selection) Height() float64 { return s.Y1 - s.Y0 }

// Selected returns the commits whose points fall inside brush, in the order given
func (p Plot) Selected(commits []models.Commit, brush *Selection) []models.Commit {
	if brush == nil {
		return nil
	}
	var out []models.Commit
	for _, c := range commits {
		if brush.Contains(p.Position(c)) {
			out = append(out, c)
		}
	}
	return out
}

// CountLabel renders the selection count, "No" standing in for zero
func CountLabel(n int) string {
	if n == 0 {
		return "No commits selected"
	}
	return fmt.Sprintf("%d commits selected", n)
}

// HourLabel formats a y tick value like "09:00"
func HourLabel(h float64) string {
	return fmt.Sprintf("%02d:00", int(h))
}
