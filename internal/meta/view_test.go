package meta_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
)

func ids(commits []models.Commit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.ID
	}
	return out
}

func TestViewDefaultsToEverything(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	v, err := ds.View(meta.Query{})
	require.NoError(t, err)

	assert.InDelta(t, 100, v.Progress, 1e-9)
	assert.Equal(t, -1, v.Step)
	assert.Equal(t, []string{"a1", "b2"}, ids(v.Filtered))
	assert.Equal(t, "January 2, 2024 at 2:30 PM", v.CutoffLabel)
	assert.Nil(t, v.Selected)
	assert.Equal(t, "No commits selected", v.CountLabel)

	// no brush: the breakdown covers every visible commit
	require.Len(t, v.Breakdown, 2)
	assert.Equal(t, "js", v.Breakdown[0].Type)

	require.Len(t, v.Points, 2)
	assert.Equal(t, "a1", v.Points[0].ID, "larger commits are drawn first")
	assert.Greater(t, v.Points[0].R, v.Points[1].R)

	require.Len(t, v.Files, 2)
	assert.Equal(t, models.FileSummary{Name: "x.js", Lines: 2, Type: "js", Color: "#4e79a7"}, v.Files[0])
}

func TestViewBrushSelectsOneCommit(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	base, err := ds.View(meta.Query{})
	require.NoError(t, err)

	x, y := base.Plot.Position(ds.Commits[0])
	brush := meta.NewSelection(x+5, y+5, x-5, y-5)

	v, err := ds.View(meta.Query{Brush: brush})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1"}, ids(v.Selected))
	assert.Equal(t, "1 commits selected", v.CountLabel)
	assert.Equal(t, []models.LanguageShare{
		{Type: "js", Lines: 2, Percent: 100, Formatted: "100.0%"},
	}, v.Breakdown)

	for _, p := range v.Points {
		assert.Equal(t, p.ID == "a1", p.Selected, p.ID)
	}
}

func TestViewEmptyBrush(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	v, err := ds.View(meta.Query{Brush: meta.NewSelection(0, 0, 1, 1)})
	require.NoError(t, err)

	assert.Empty(t, v.Selected)
	assert.Equal(t, "No commits selected", v.CountLabel)
	assert.Nil(t, v.Breakdown)
}

func TestViewCutoffBeforeAllCommits(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	v, err := ds.View(meta.Query{}.WithCutoff(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.Empty(t, v.Filtered)
	assert.Empty(t, v.Files)
	assert.Empty(t, v.Points)
	assert.InDelta(t, 0, v.Progress, 1e-9)
}

func TestViewProgressIsMonotonic(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)

	prev := map[string]bool{}
	for p := 0.0; p <= 100; p += 5 {
		v, err := ds.View(meta.Query{}.WithProgress(p))
		require.NoError(t, err)

		cur := map[string]bool{}
		for _, c := range v.Filtered {
			cur[c.ID] = true
			assert.False(t, c.Datetime.After(v.Cutoff))
		}
		for id := range prev {
			assert.True(t, cur[id], "commit %s disappeared at progress %v", id, p)
		}
		prev = cur
	}

	v, err := ds.View(meta.Query{}.WithProgress(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(v.Filtered))

	v, err = ds.View(meta.Query{}.WithProgress(250))
	require.NoError(t, err)
	assert.InDelta(t, 100, v.Progress, 1e-9)
	assert.Len(t, v.Filtered, 2)
}

func TestViewStepProgressShowsStepCommit(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)
	gap := 37*time.Hour + 13*time.Minute + 7*time.Second

	var rows []models.Row
	for i := range 400 {
		at := start.Add(time.Duration(i) * gap)
		rows = append(rows, models.Row{
			File:     "main.go",
			Commit:   fmt.Sprintf("c%03d", i),
			Author:   "dev",
			Date:     at.Truncate(24 * time.Hour),
			Datetime: at,
			Line:     i + 1,
			Length:   10,
			Type:     "go",
		})
	}
	ds := meta.NewDataset(rows, models.LoadSummary{}, "")

	steps := ds.Steps()
	require.Len(t, steps, 400)
	for i, step := range steps {
		v, err := ds.View(meta.Query{}.WithProgress(step.Progress))
		require.NoError(t, err)
		require.Len(t, v.Filtered, i+1, "step %d progress=%v cutoff=%v", i, step.Progress, v.Cutoff)
		assert.True(t, v.Cutoff.Equal(step.Datetime), "step %d", i)
	}
}

func TestViewXAxisIgnoresCutoff(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	all, err := ds.View(meta.Query{})
	require.NoError(t, err)
	early, err := ds.View(meta.Query{}.WithProgress(0))
	require.NoError(t, err)

	x0, _ := all.Plot.X.Domain()
	x1, _ := early.Plot.X.Domain()
	assert.True(t, x0.Equal(x1))
}

func TestViewStep(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)

	steps := ds.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "a1", steps[0].CommitID)
	assert.InDelta(t, 0, steps[0].Progress, 1e-9)
	assert.Equal(t, 1, steps[0].Files)
	assert.Equal(t, 2, steps[0].Lines)
	assert.InDelta(t, 100, steps[1].Progress, 1e-9)

	v, err := ds.View(meta.Query{}.WithStep(0))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Step)
	assert.Equal(t, []string{"a1"}, ids(v.Filtered))
	require.Len(t, v.Files, 1)
	assert.Equal(t, "x.js", v.Files[0].Name)

	_, err = ds.View(meta.Query{}.WithStep(2))
	assert.ErrorIs(t, err, meta.ErrStepOutOfRange)
}

func TestViewEmptyDataset(t *testing.T) {
	t.Parallel()

	ds := meta.NewDataset(nil, models.LoadSummary{}, "")
	v, err := ds.View(meta.Query{})
	require.NoError(t, err)

	assert.Empty(t, v.Filtered)
	assert.Empty(t, v.Points)
	assert.Empty(t, v.Steps)
	assert.Empty(t, v.CutoffLabel)

	var buf bytes.Buffer
	require.NoError(t, meta.RenderSVG(&buf, v))
	assert.NotContains(t, buf.String(), "<circle")
}

func TestRenderSVG(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	base, err := ds.View(meta.Query{})
	require.NoError(t, err)
	x, y := base.Plot.Position(ds.Commits[0])

	v, err := ds.View(meta.Query{Brush: meta.NewSelection(x-5, y-5, x+5, y+5)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, meta.RenderSVG(&buf, v))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Equal(t, 1, strings.Count(out, `class="selected"`))
	assert.Contains(t, out, `href="https://example.com/commit/a1"`)
	assert.Contains(t, out, "<title>a1 · Monday, January 1, 2024</title>")
	assert.Contains(t, out, `<rect class="brush"`)
	assert.Contains(t, out, ">12:00</text>")
}
