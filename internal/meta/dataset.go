package meta

import (
	"slices"
	"time"

	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
)

// RowIndex maps a commit id to the rows of that commit. It is the only way
// to reach a commit's rows; Commit itself never carries them.
type RowIndex struct {
	byCommit map[string][]models.Row
}

// Rows returns a copy of the rows of commit id, in log order
func (x RowIndex) Rows(id string) ([]models.Row, bool) {
	rows, ok := x.byCommit[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(rows), true
}

// Count returns the number of rows of commit id without copying them
func (x RowIndex) Count(id string) int {
	return len(x.byCommit[id])
}

// Flatten returns the rows of every commit in commits, in commit order
func (x RowIndex) Flatten(commits []models.Commit) []models.Row {
	n := 0
	for _, c := range commits {
		n += len(x.byCommit[c.ID])
	}
	out := make([]models.Row, 0, n)
	for _, c := range commits {
		out = append(out, x.byCommit[c.ID]...)
	}
	return out
}

// Len returns the number of indexed commits
func (x RowIndex) Len() int { return len(x.byCommit) }

// Aggregate groups rows by commit id in first-seen order. Identifying fields
// come from the first row of each group. urlBase is prefixed to the id to
// build the commit URL.
func Aggregate(rows []models.Row, urlBase string) ([]models.Commit, RowIndex) {
	index := RowIndex{byCommit: make(map[string][]models.Row)}
	var order []string

	for _, row := range rows {
		group, seen := index.byCommit[row.Commit]
		if !seen {
			order = append(order, row.Commit)
		}
		index.byCommit[row.Commit] = append(group, row)
	}

	commits := make([]models.Commit, 0, len(order))
	for _, id := range order {
		group := index.byCommit[id]
		first := group[0]
		commits = append(commits, models.Commit{
			ID:         id,
			URL:        urlBase + id,
			Author:     first.Author,
			Date:       first.Date,
			Time:       first.Time,
			Timezone:   first.Timezone,
			Datetime:   first.Datetime,
			HourFrac:   HourFrac(first.Datetime),
			TotalLines: len(group),
		})
	}
	return commits, index
}

// HourFrac returns the fractional hour of day of t in its own location, in [0, 24)
func HourFrac(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// Dataset is one immutable load of the commit log
type Dataset struct {
	Rows    []models.Row
	Commits []models.Commit
	Summary models.LoadSummary

	index   RowIndex
	palette *chart.Ordinal
	types   []string
}

// NewDataset aggregates rows into commits and seeds the type palette with
// every type in first-seen order, so colors never shift between views.
func NewDataset(rows []models.Row, summary models.LoadSummary, urlBase string) *Dataset {
	commits, index := Aggregate(rows, urlBase)

	var types []string
	seen := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seen[r.Type]; !ok {
			seen[r.Type] = struct{}{}
			types = append(types, r.Type)
		}
	}

	return &Dataset{
		Rows:    rows,
		Commits: commits,
		Summary: summary,
		index:   index,
		palette: chart.NewOrdinal(chart.Tableau10, types...),
		types:   types,
	}
}

// Index returns the commit id to rows index
func (d *Dataset) Index() RowIndex { return d.index }

// Palette returns the type color scale
func (d *Dataset) Palette() *chart.Ordinal { return d.palette }

// Types returns the distinct row types in first-seen order
func (d *Dataset) Types() []string { return slices.Clone(d.types) }

// Commit returns the commit with the given id
func (d *Dataset) Commit(id string) (models.Commit, bool) {
	i := slices.IndexFunc(d.Commits, func(c models.Commit) bool { return c.ID == id })
	if i < 0 {
		return models.Commit{}, false
	}
	return d.Commits[i], true
}

// Empty reports whether the dataset has no commits
func (d *Dataset) Empty() bool { return len(d.Commits) == 0 }
