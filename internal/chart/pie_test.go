package chart_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/chart"
)

func TestPieSplitsTheCircle(t *testing.T) {
	t.Parallel()

	arcs := chart.Pie([]float64{1, 3})
	require.Len(t, arcs, 2)
	assert.InDelta(t, 0, arcs[0].StartAngle, 1e-9)
	assert.InDelta(t, math.Pi/2, arcs[0].EndAngle, 1e-9)
	assert.InDelta(t, math.Pi/2, arcs[1].StartAngle, 1e-9)
	assert.InDelta(t, 2*math.Pi, arcs[1].EndAngle, 1e-9)
}

func TestPieEmptyValues(t *testing.T) {
	t.Parallel()

	arcs := chart.Pie([]float64{0, 0})
	require.Len(t, arcs, 2)
	for _, a := range arcs {
		assert.Empty(t, a.Path(50))
	}
	assert.Empty(t, chart.Pie(nil))
}

func TestArcPath(t *testing.T) {
	t.Parallel()

	arcs := chart.Pie([]float64{1, 1})
	assert.Equal(t, "M0.000,-50.000A50.000,50.000,0,0,1,0.000,50.000L0,0Z", arcs[0].Path(50))

	full := chart.Pie([]float64{7})
	assert.Equal(t, "M0,-50.000A50.000,50.000,0,1,1,0,50.000A50.000,50.000,0,1,1,0,-50.000Z", full[0].Path(50))
}
