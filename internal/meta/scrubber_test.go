package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/meta"
)

func TestScrubberNotifiesObservers(t *testing.T) {
	t.Parallel()

	s := meta.NewScrubber(loadSample(t))

	var seen []float64
	s.Observe(meta.StepObserverFunc(func(v meta.ViewState) {
		seen = append(seen, v.Progress)
	}))

	s.SetProgress(0)
	s.SetProgress(100)
	assert.Equal(t, []float64{0, 100}, seen)
}

func TestScrubberNavigatesSteps(t *testing.T) {
	t.Parallel()

	s := meta.NewScrubber(loadSample(t))
	assert.Equal(t, -1, s.State().Step)

	// at progress 100 both commits are visible, so there is no next step
	v := s.Next()
	assert.Equal(t, -1, v.Step)

	v = s.Prev()
	assert.Equal(t, 1, v.Step)
	v = s.Prev()
	assert.Equal(t, 0, v.Step)
	assert.Len(t, v.Filtered, 1)

	v = s.Prev()
	assert.Equal(t, 0, v.Step, "stays on the first step")

	v = s.Next()
	assert.Equal(t, 1, v.Step)
	assert.Len(t, v.Filtered, 2)
}

func TestScrubberRejectsUnknownStep(t *testing.T) {
	t.Parallel()

	s := meta.NewScrubber(loadSample(t))
	before := s.State()

	calls := 0
	s.Observe(meta.StepObserverFunc(func(meta.ViewState) { calls++ }))

	_, err := s.EnterStep(7)
	require.ErrorIs(t, err, meta.ErrStepOutOfRange)
	assert.Zero(t, calls)
	assert.Equal(t, before.Progress, s.State().Progress)
}

func TestScrubberKeepsBrushAcrossSteps(t *testing.T) {
	t.Parallel()

	s := meta.NewScrubber(loadSample(t))
	s.SetBrush(meta.NewSelection(0, 0, meta.PlotWidth, meta.PlotHeight))
	assert.Equal(t, "2 commits selected", s.State().CountLabel)

	v, err := s.EnterStep(0)
	require.NoError(t, err)
	assert.Equal(t, "1 commits selected", v.CountLabel)

	v = s.SetBrush(nil)
	assert.Equal(t, "No commits selected", v.CountLabel)
}
