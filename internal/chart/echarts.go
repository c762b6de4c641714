package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/bravo68web/folio/internal/domain/models"
)

const (
	pieWidth  = "480px"
	pieHeight = "400px"
)

var pieRadius = []string{"0%", "65%"}

func newPie(title, subtitle string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:     pieWidth,
			Height:    pieHeight,
			PageTitle: title,
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	return pie
}

// ProjectYearPie builds the ECharts option of the projects-per-year pie.
// Slice colors are the rollup's colors.
func ProjectYearPie(years []models.YearCount) *charts.Pie {
	data := make([]opts.PieData, len(years))
	total := 0
	for i, y := range years {
		total += y.Count
		data[i] = opts.PieData{
			Name:      string(y.Year),
			Value:     y.Count,
			ItemStyle: &opts.ItemStyle{Color: y.Color},
		}
	}

	pie := newPie("Projects per year", fmt.Sprintf("%d projects", total))
	pie.AddSeries("Projects", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)
	return pie
}

// BreakdownPie builds the ECharts option of a selection breakdown, colored
// by the dataset's type palette
func BreakdownPie(shares []models.LanguageShare, palette *Ordinal) *charts.Pie {
	data := make([]opts.PieData, len(shares))
	total := 0
	for i, s := range shares {
		total += s.Lines
		data[i] = opts.PieData{
			Name:      s.Type,
			Value:     s.Lines,
			ItemStyle: &opts.ItemStyle{Color: palette.Color(s.Type)},
		}
	}

	pie := newPie("Lines by type", fmt.Sprintf("%d lines", total))
	pie.AddSeries("Lines", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)
	return pie
}
