package meta

import (
	"html/template"
	"io"
	"strconv"
)

// YTicks is the number of hour gridlines
const YTicks = 12

type axisTick struct {
	Pos   string
	Label string
}

type svgPoint struct {
	Point
	CX, CY, R string
}

type svgData struct {
	Width, Height string
	Left, Right   string
	Top, Bottom   string
	GridWidth     string

	XTicks []axisTick
	YTicks []axisTick
	Points []svgPoint

	BX, BY, BW, BH       string
	ShowBrush, HasPoints bool
}

var scatterTemplate = template.Must(template.New("scatter").Parse(`<svg class="scatter" viewBox="0 0 {{.Width}} {{.Height}}" xmlns="http://www.w3.org/2000/svg" role="img" aria-label="Commits by time of day">
  <g class="gridlines" transform="translate({{.Left}}, 0)">
    {{- range .YTicks}}
    <line x1="0" x2="{{$.GridWidth}}" y1="{{.Pos}}" y2="{{.Pos}}"/>
    {{- end}}
  </g>
  <g class="x-axis" transform="translate(0, {{.Bottom}})">
    <line x1="{{.Left}}" x2="{{.Right}}" y1="0" y2="0"/>
    {{- range .XTicks}}
    <g class="tick" transform="translate({{.Pos}}, 0)"><line y2="6"/><text y="18" text-anchor="middle">{{.Label}}</text></g>
    {{- end}}
  </g>
  <g class="y-axis" transform="translate({{.Left}}, 0)">
    <line x1="0" x2="0" y1="{{.Top}}" y2="{{.Bottom}}"/>
    {{- range .YTicks}}
    <g class="tick" transform="translate(0, {{.Pos}})"><line x2="-6"/><text x="-9" dy="0.32em" text-anchor="end">{{.Label}}</text></g>
    {{- end}}
  </g>
  <g class="dots">
    {{- range .Points}}
    <a href="{{.Tooltip.Link}}" target="_blank" rel="noopener" data-commit="{{.ID}}">
      <circle cx="{{.CX}}" cy="{{.CY}}" r="{{.R}}" fill="steelblue" fill-opacity="0.7"{{if .Selected}} class="selected"{{end}}>
        <title>{{.Tooltip.ID}} · {{.Tooltip.Date}}</title>
      </circle>
    </a>
    {{- end}}
  </g>
  {{- if .ShowBrush}}
  <rect class="brush" x="{{.BX}}" y="{{.BY}}" width="{{.BW}}" height="{{.BH}}"/>
  {{- end}}
</svg>
`))

// RenderSVG writes the scatterplot of v as a standalone SVG element. Each
// point links to its commit and carries its tooltip as an SVG title.
func RenderSVG(w io.Writer, v ViewState) error {
	p := v.Plot
	data := svgData{
		Width:     num(p.Width),
		Height:    num(p.Height),
		Left:      num(p.Margin.Left),
		Right:     num(p.Width - p.Margin.Right),
		Top:       num(p.Margin.Top),
		Bottom:    num(p.Height - p.Margin.Bottom),
		GridWidth: num(p.UsableWidth()),
		HasPoints: len(v.Points) > 0,
	}

	start, end := p.X.Domain()
	if !start.IsZero() || !end.IsZero() {
		for _, t := range p.X.Ticks(XTicks) {
			data.XTicks = append(data.XTicks, axisTick{Pos: num(p.X.Map(t.At)), Label: t.Label})
		}
	}
	for _, h := range p.Y.Ticks(YTicks) {
		data.YTicks = append(data.YTicks, axisTick{Pos: num(p.Y.Map(h)), Label: HourLabel(h)})
	}
	for _, pt := range v.Points {
		data.Points = append(data.Points, svgPoint{Point: pt, CX: num(pt.CX), CY: num(pt.CY), R: num(pt.R)})
	}
	if b := v.Brush; b != nil {
		data.ShowBrush = true
		data.BX, data.BY = num(b.X0), num(b.Y0)
		data.BW, data.BH = num(b.Width()), num(b.Height())
	}

	return scatterTemplate.Execute(w, data)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
