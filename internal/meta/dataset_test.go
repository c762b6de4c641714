package meta_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	require.Len(t, ds.Commits, 2)

	a1, b2 := ds.Commits[0], ds.Commits[1]
	assert.Equal(t, "a1", a1.ID)
	assert.Equal(t, "https://example.com/commit/a1", a1.URL)
	assert.Equal(t, 2, a1.TotalLines)
	assert.InDelta(t, 9.0, a1.HourFrac, 1e-9)

	assert.Equal(t, "b2", b2.ID)
	assert.Equal(t, 1, b2.TotalLines)
	assert.InDelta(t, 14.5, b2.HourFrac, 1e-9)
}

func TestAggregateLineTotalsMatchRows(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)

	sum := 0
	for _, c := range ds.Commits {
		sum += c.TotalLines
		assert.Equal(t, c.TotalLines, ds.Index().Count(c.ID))
		assert.GreaterOrEqual(t, c.HourFrac, 0.0)
		assert.Less(t, c.HourFrac, 24.0)
	}
	assert.Equal(t, len(ds.Rows), sum)
	assert.Equal(t, 2, ds.Index().Len())
}

func TestRowIndexReturnsCopies(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)

	rows, ok := ds.Index().Rows("a1")
	require.True(t, ok)
	rows[0].File = "changed.js"

	again, _ := ds.Index().Rows("a1")
	assert.Equal(t, "x.js", again[0].File)

	_, ok = ds.Index().Rows("missing")
	assert.False(t, ok)
}

func TestHourFrac(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, meta.HourFrac(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-9)
	assert.InDelta(t, 23.0+59.0/60, meta.HourFrac(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)), 1e-9)
}

func TestDatasetPaletteIsStable(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	assert.Equal(t, []string{"js", "css"}, ds.Types())
	assert.Equal(t, "#4e79a7", ds.Palette().Color("js"))
	assert.Equal(t, "#f28e2c", ds.Palette().Color("css"))
}

func TestStats(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	stats := meta.Stats(ds.Rows, ds.Commits)

	labels := make([]string, len(stats))
	values := make(map[string]string)
	for i, s := range stats {
		labels[i] = s.Label
		values[s.Label] = s.Value
	}
	assert.Equal(t, []string{
		meta.StatTotalFiles, meta.StatTotalLOC, meta.StatTotalCommits,
		meta.StatAvgFileLength, meta.StatMaxDepth, meta.StatMostProductive,
	}, labels)

	assert.Equal(t, "2", values[meta.StatTotalFiles])
	assert.Equal(t, "3", values[meta.StatTotalLOC])
	assert.Equal(t, "2", values[meta.StatTotalCommits])
	assert.Equal(t, "1.5", values[meta.StatAvgFileLength])
	assert.Equal(t, "1", values[meta.StatMaxDepth])
	assert.Equal(t, meta.PeriodMorning, values[meta.StatMostProductive])
}

func TestStatsMostProductiveTieKeepsFirstSeen(t *testing.T) {
	t.Parallel()

	rows := []models.Row{
		{File: "a.go", Line: 1, Datetime: time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)},
		{File: "a.go", Line: 2, Datetime: time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)},
	}
	stats := meta.Stats(rows, nil)
	assert.Equal(t, meta.PeriodNight, stats[len(stats)-1].Value)
}

func TestDayPeriod(t *testing.T) {
	t.Parallel()

	at := func(h int) time.Time { return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC) }
	assert.Equal(t, meta.PeriodNight, meta.DayPeriod(at(5)))
	assert.Equal(t, meta.PeriodMorning, meta.DayPeriod(at(6)))
	assert.Equal(t, meta.PeriodAfternoon, meta.DayPeriod(at(12)))
	assert.Equal(t, meta.PeriodEvening, meta.DayPeriod(at(18)))
	assert.Equal(t, meta.PeriodNight, meta.DayPeriod(at(21)))
}

func TestBreakdown(t *testing.T) {
	t.Parallel()

	ds := loadSample(t)
	shares := meta.Breakdown(ds.Rows)
	require.Len(t, shares, 2)

	assert.Equal(t, "js", shares[0].Type)
	assert.Equal(t, 2, shares[0].Lines)
	assert.Equal(t, "66.7%", shares[0].Formatted)
	assert.Equal(t, "css", shares[1].Type)
	assert.Equal(t, "33.3%", shares[1].Formatted)

	total := 0.0
	for _, s := range shares {
		total += s.Percent
	}
	assert.InDelta(t, 100, total, 1e-9)

	assert.Nil(t, meta.Breakdown(nil))
}
