// Package chart holds the scale math behind the dashboard plots: linear,
// square-root, time and ordinal scales with tick generation.
package chart

import (
	"math"
)

// Linear maps a continuous domain onto a continuous range
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from domain [d0, d1] to range [r0, r1]
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the scale's input interval
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the scale's output interval
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map returns the range value for v. A degenerate domain maps everything to
// the middle of the range.
func (s Linear) Map(v float64) float64 {
	return interpolate(s.r0, s.r1, normalize(s.d0, s.d1, v))
}

// Invert returns the domain value for a range value
func (s Linear) Invert(px float64) float64 {
	return interpolate(s.d0, s.d1, normalize(s.r0, s.r1, px))
}

// Ticks returns roughly count round values spanning the domain
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.d0, s.d1, count)
}

// Sqrt is a power scale with exponent 0.5. Area, not radius, grows linearly
// with the input, which keeps circle sizes perceptually honest.
type Sqrt struct {
	inner Linear
}

// NewSqrt creates a square-root scale from domain [d0, d1] to range [r0, r1]
func NewSqrt(d0, d1, r0, r1 float64) Sqrt {
	return Sqrt{inner: NewLinear(signedSqrt(d0), signedSqrt(d1), r0, r1)}
}

// Map returns the range value for v
func (s Sqrt) Map(v float64) float64 {
	return s.inner.Map(signedSqrt(v))
}

// Range returns the scale's output interval
func (s Sqrt) Range() (float64, float64) { return s.inner.Range() }

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

func normalize(a, b, v float64) float64 {
	if b == a {
		return 0.5
	}
	return (v - a) / (b - a)
}

func interpolate(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// TickStep returns the 1-2-5 step that splits [start, stop] into about count intervals
func TickStep(start, stop float64, count int) float64 {
	if count <= 0 || stop == start {
		return 0
	}
	step0 := math.Abs(stop-start) / float64(count)
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	ratio := step0 / step1
	switch {
	case ratio >= e10:
		step1 *= 10
	case ratio >= e5:
		step1 *= 5
	case ratio >= e2:
		step1 *= 2
	}
	if stop < start {
		return -step1
	}
	return step1
}

// Ticks returns the multiples of TickStep(start, stop, count) inside [start, stop]
func Ticks(start, stop float64, count int) []float64 {
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	step := TickStep(start, stop, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}

	first := math.Ceil(start / step)
	last := math.Floor(stop / step)
	ticks := make([]float64, 0, int(last-first)+1)
	for i := first; i <= last; i++ {
		// round away float noise such as 0.30000000000000004
		ticks = append(ticks, math.Round(i*step*1e12)/1e12)
	}
	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}
