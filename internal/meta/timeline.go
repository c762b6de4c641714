package meta

import (
	"math"
	"sort"
	"time"

	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
)

// snapWindow absorbs float rounding when a progress value converts back to
// the commit datetime it was computed from
const snapWindow = time.Microsecond

// Timeline maps a progress percentage onto the commit time span
type Timeline struct {
	scale  chart.Time
	stamps []time.Time // commit datetimes, ascending
}

// NewTimeline spans [min datetime, max datetime] of commits onto [0, 100]
func NewTimeline(commits []models.Commit) Timeline {
	stamps := make([]time.Time, len(commits))
	for i, c := range commits {
		stamps[i] = c.Datetime
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	var start, end time.Time
	if len(stamps) > 0 {
		start, end = stamps[0], stamps[len(stamps)-1]
	}
	return Timeline{scale: chart.NewTime(start, end, 0, 100), stamps: stamps}
}

// Bounds returns the first and last commit datetimes
func (t Timeline) Bounds() (time.Time, time.Time) { return t.scale.Domain() }

// CutoffAt converts progress, clamped to [0, 100], into a cutoff datetime.
// 0 and 100 return the first and last commit datetimes exactly, and a cutoff
// falling just short of a commit snaps onto it, so the progress of a step
// always shows that step's commit.
func (t Timeline) CutoffAt(progress float64) time.Time {
	cutoff := t.scale.Invert(ClampProgress(progress))

	i := sort.Search(len(t.stamps), func(i int) bool { return !t.stamps[i].Before(cutoff) })
	if i < len(t.stamps) && t.stamps[i].Sub(cutoff) <= snapWindow {
		return t.stamps[i]
	}
	return cutoff
}

// ProgressAt converts a datetime back into a progress value in [0, 100]
func (t Timeline) ProgressAt(at time.Time) float64 {
	start, end := t.scale.Domain()
	switch {
	case !end.After(start):
		return 100
	case !at.After(start):
		return 0
	case !at.Before(end):
		return 100
	}
	return t.scale.Map(at)
}

// ClampProgress limits p to [0, 100]
func ClampProgress(p float64) float64 {
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 100:
		return 100
	}
	return p
}

// FilterByCutoff returns the commits at or before cutoff, in the order
// given. A later cutoff always returns a superset of an earlier one.
func FilterByCutoff(commits []models.Commit, cutoff time.Time) []models.Commit {
	out := make([]models.Commit, 0, len(commits))
	for _, c := range commits {
		if !c.Datetime.After(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// Steps returns one narrative step per commit in ascending time order
func Steps(commits []models.Commit, index RowIndex, tl Timeline) []models.Step {
	ordered := make([]models.Commit, len(commits))
	copy(ordered, commits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Datetime.Before(ordered[j].Datetime)
	})

	steps := make([]models.Step, len(ordered))
	for i, c := range ordered {
		files := make(map[string]struct{})
		rows, _ := index.Rows(c.ID)
		for _, r := range rows {
			files[r.File] = struct{}{}
		}
		steps[i] = models.Step{
			Index:    i,
			CommitID: c.ID,
			URL:      c.URL,
			Author:   c.Author,
			Datetime: c.Datetime,
			Progress: tl.ProgressAt(c.Datetime),
			Lines:    c.TotalLines,
			Files:    len(files),
		}
	}
	return steps
}

// FileSummaries groups the rows of commits by file, most rows first.
// Each file takes the color of its dominant type from palette.
func FileSummaries(commits []models.Commit, index RowIndex, palette *chart.Ordinal) []models.FileSummary {
	type acc struct {
		lines     int
		typeCount map[string]int
		typeOrder []string
	}
	byFile := make(map[string]*acc)
	var order []string

	for _, r := range index.Flatten(commits) {
		a, ok := byFile[r.File]
		if !ok {
			a = &acc{typeCount: make(map[string]int)}
			byFile[r.File] = a
			order = append(order, r.File)
		}
		a.lines++
		if _, seen := a.typeCount[r.Type]; !seen {
			a.typeOrder = append(a.typeOrder, r.Type)
		}
		a.typeCount[r.Type]++
	}

	out := make([]models.FileSummary, 0, len(order))
	for _, name := range order {
		a := byFile[name]
		dominant, best := "", 0
		for _, typ := range a.typeOrder {
			if a.typeCount[typ] > best {
				dominant, best = typ, a.typeCount[typ]
			}
		}
		out = append(out, models.FileSummary{
			Name:  name,
			Lines: a.lines,
			Type:  dominant,
			Color: palette.Color(dominant),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Lines > out[j].Lines })
	return out
}

// CutoffLabel formats the cutoff like "January 2, 2006 at 3:04 PM"
func CutoffLabel(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006 at 3:04 PM")
}
