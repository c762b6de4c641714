package chart

import (
	"math"
	"strconv"
	"strings"
)

// Arc is one slice of a pie, with angles in radians measured clockwise from
// twelve o'clock
type Arc struct {
	Index      int
	Value      float64
	StartAngle float64
	EndAngle   float64
}

// Pie lays out values as consecutive arcs in input order. Non-positive
// values get empty arcs; an all-zero input yields only empty arcs.
func Pie(values []float64) []Arc {
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}

	arcs := make([]Arc, len(values))
	angle := 0.0
	for i, v := range values {
		arcs[i] = Arc{Index: i, Value: v, StartAngle: angle, EndAngle: angle}
		if v > 0 && total > 0 {
			angle += v / total * 2 * math.Pi
			arcs[i].EndAngle = angle
		}
	}
	return arcs
}

// Path returns the SVG path of a as a filled wedge of the given radius
// centered on the origin. A full circle is drawn as two half arcs.
func (a Arc) Path(radius float64) string {
	sweep := a.EndAngle - a.StartAngle
	if sweep <= 0 {
		return ""
	}

	var b strings.Builder
	if sweep >= 2*math.Pi-1e-9 {
		r := fmtFloat(radius)
		b.WriteString("M0,-" + r)
		b.WriteString("A" + r + "," + r + ",0,1,1,0," + r)
		b.WriteString("A" + r + "," + r + ",0,1,1,0,-" + r)
		b.WriteString("Z")
		return b.String()
	}

	x0, y0 := point(radius, a.StartAngle)
	x1, y1 := point(radius, a.EndAngle)
	large := "0"
	if sweep > math.Pi {
		large = "1"
	}
	r := fmtFloat(radius)
	b.WriteString("M" + fmtFloat(x0) + "," + fmtFloat(y0))
	b.WriteString("A" + r + "," + r + ",0," + large + ",1," + fmtFloat(x1) + "," + fmtFloat(y1))
	b.WriteString("L0,0Z")
	return b.String()
}

func point(radius, angle float64) (float64, float64) {
	return radius * math.Sin(angle), -radius * math.Cos(angle)
}

func fmtFloat(f float64) string {
	if math.Abs(f) < 5e-4 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', 3, 64)
}
