package meta

import (
	"errors"
	"fmt"
	"time"

	"github.com/bravo68web/folio/internal/domain/models"
)

// ErrStepOutOfRange is returned for a narrative step index with no commit
var ErrStepOutOfRange = errors.New("step out of range")

// Query describes one dashboard interaction. When several inputs are set,
// Step wins over Cutoff, which wins over Progress. None means progress 100.
type Query struct {
	Progress *float64
	Cutoff   *time.Time
	Step     *int
	Brush    *Selection
}

// WithProgress returns a copy of q driven by a progress value
func (q Query) WithProgress(p float64) Query {
	q.Progress, q.Cutoff, q.Step = &p, nil, nil
	return q
}

// WithStep returns a copy of q driven by a narrative step
func (q Query) WithStep(i int) Query {
	q.Progress, q.Cutoff, q.Step = nil, nil, &i
	return q
}

// WithCutoff returns a copy of q driven by an explicit cutoff
func (q Query) WithCutoff(t time.Time) Query {
	q.Progress, q.Cutoff, q.Step = nil, &t, nil
	return q
}

// WithBrush returns a copy of q with a brush, or without one when b is nil
func (q Query) WithBrush(b *Selection) Query {
	q.Brush = b
	return q
}

// ViewState is everything one render of the dashboard needs. It is
// recomputed from the Dataset for every interaction and never mutated.
type ViewState struct {
	Progress    float64
	Cutoff      time.Time
	CutoffLabel string
	Step        int // index of the active step, -1 when not step-driven

	Filtered []models.Commit
	Plot     Plot
	Points   []Point

	Brush      *Selection
	Selected   []models.Commit
	CountLabel string
	Breakdown  []models.LanguageShare

	Files []models.FileSummary
	Steps []models.Step
}

// Timeline returns the dataset's progress scale
func (d *Dataset) Timeline() Timeline {
	return NewTimeline(d.Commits)
}

// Steps returns the narrative steps in ascending time order
func (d *Dataset) Steps() []models.Step {
	return Steps(d.Commits, d.index, d.Timeline())
}

// View computes the dashboard state for q
func (d *Dataset) View(q Query) (ViewState, error) {
	tl := d.Timeline()
	steps := d.Steps()

	v := ViewState{Step: -1, Steps: steps, Brush: q.Brush}

	switch {
	case q.Step != nil:
		i := *q.Step
		if i < 0 || i >= len(steps) {
			return ViewState{}, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, i, len(steps))
		}
		v.Step = i
		v.Cutoff = steps[i].Datetime
		v.Progress = steps[i].Progress
	case q.Cutoff != nil:
		v.Cutoff = *q.Cutoff
		v.Progress = tl.ProgressAt(v.Cutoff)
	case q.Progress != nil:
		v.Progress = ClampProgress(*q.Progress)
		v.Cutoff = tl.CutoffAt(v.Progress)
	default:
		v.Progress = 100
		v.Cutoff = tl.CutoffAt(100)
	}
	v.CutoffLabel = CutoffLabel(v.Cutoff)

	if d.Empty() {
		v.Filtered = []models.Commit{}
	} else {
		v.Filtered = FilterByCutoff(d.Commits, v.Cutoff)
	}

	v.Plot = NewPlot(d.Commits, v.Filtered)
	v.Points = v.Plot.Points(v.Filtered, q.Brush)

	scope := v.Filtered
	if q.Brush != nil {
		v.Selected = v.Plot.Selected(v.Filtered, q.Brush)
		scope = v.Selected
	}
	v.CountLabel = CountLabel(len(v.Selected))
	v.Breakdown = Breakdown(d.index.Flatten(scope))
	v.Files = FileSummaries(v.Filtered, d.index, d.palette)

	return v, nil
}
