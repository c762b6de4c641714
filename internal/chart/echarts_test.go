package chart_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/domain/models"
)

func TestProjectYearPieOption(t *testing.T) {
	t.Parallel()

	pie := chart.ProjectYearPie([]models.YearCount{
		{Year: "2024", Count: 2, Color: "#4e79a7"},
		{Year: "2023", Count: 1, Color: "#f28e2c"},
	})
	pie.Validate()

	raw, err := json.Marshal(pie.JSON())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"2024"`)
	assert.Contains(t, string(raw), `"color":"#f28e2c"`)
	assert.Contains(t, string(raw), `3 projects`)
}

func TestBreakdownPieRendersPage(t *testing.T) {
	t.Parallel()

	palette := chart.NewOrdinal(chart.Tableau10, "js", "css")
	pie := chart.BreakdownPie([]models.LanguageShare{
		{Type: "js", Lines: 2, Percent: 66.7},
		{Type: "css", Lines: 1, Percent: 33.3},
	}, palette)

	var buf bytes.Buffer
	require.NoError(t, pie.Render(&buf))
	assert.Contains(t, buf.String(), "Lines by type")
	assert.Contains(t, buf.String(), chart.Tableau10[1])
}
