package chart

import (
	"math"
	"sort"
	"time"
)

type unit int

const (
	unitSecond unit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

// interval is a calendar step such as "3 hours" or "1 month"
type interval struct {
	unit unit
	step int
}

const (
	durDay   = 24 * time.Hour
	durWeek  = 7 * durDay
	durMonth = 30 * durDay
	durYear  = 365 * durDay
)

func (iv interval) approx() time.Duration {
	var base time.Duration
	switch iv.unit {
	case unitSecond:
		base = time.Second
	case unitMinute:
		base = time.Minute
	case unitHour:
		base = time.Hour
	case unitDay:
		base = durDay
	case unitWeek:
		base = durWeek
	case unitMonth:
		base = durMonth
	default:
		base = durYear
	}
	return base * time.Duration(iv.step)
}

var tickIntervals = []interval{
	{unitSecond, 1}, {unitSecond, 5}, {unitSecond, 15}, {unitSecond, 30},
	{unitMinute, 1}, {unitMinute, 5}, {unitMinute, 15}, {unitMinute, 30},
	{unitHour, 1}, {unitHour, 3}, {unitHour, 6}, {unitHour, 12},
	{unitDay, 1}, {unitDay, 2},
	{unitWeek, 1},
	{unitMonth, 1}, {unitMonth, 3},
	{unitYear, 1},
}

// chooseInterval picks the calendar step whose size is closest to span/count
func chooseInterval(start, stop time.Time, count int) interval {
	if count <= 0 {
		count = 10
	}
	target := stop.Sub(start) / time.Duration(count)
	if target < 0 {
		target = -target
	}

	i := sort.Search(len(tickIntervals), func(i int) bool {
		return tickIntervals[i].approx() > target
	})
	switch {
	case i == len(tickIntervals):
		years := TickStep(float64(start.Year()), float64(stop.Year()), count)
		if years < 1 {
			years = 1
		}
		return interval{unitYear, int(years)}
	case i == 0:
		return tickIntervals[0]
	}

	lo, hi := tickIntervals[i-1], tickIntervals[i]
	if float64(target)/float64(lo.approx()) < float64(hi.approx())/float64(target) {
		return lo
	}
	return hi
}

// floor returns the latest interval boundary at or before t, in t's location
func (iv interval) floor(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch iv.unit {
	case unitSecond:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second()-t.Second()%iv.step, 0, loc)
	case unitMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute()-t.Minute()%iv.step, 0, 0, loc)
	case unitHour:
		return time.Date(y, m, d, t.Hour()-t.Hour()%iv.step, 0, 0, 0, loc)
	case unitDay:
		return time.Date(y, m, d-(d-1)%iv.step, 0, 0, 0, 0, loc)
	case unitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case unitMonth:
		mm := int(m) - 1
		return time.Date(y, time.Month(mm-mm%iv.step+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y-y%iv.step, time.January, 1, 0, 0, 0, 0, loc)
	}
}

func (iv interval) offset(t time.Time, n int) time.Time {
	k := iv.step * n
	switch iv.unit {
	case unitSecond:
		return t.Add(time.Duration(k) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(k) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(k) * time.Hour)
	case unitDay:
		return t.AddDate(0, 0, k)
	case unitWeek:
		return t.AddDate(0, 0, 7*k)
	case unitMonth:
		return t.AddDate(0, k, 0)
	default:
		return t.AddDate(k, 0, 0)
	}
}

func (iv interval) ceil(t time.Time) time.Time {
	f := iv.floor(t)
	if f.Equal(t) {
		return t
	}
	return iv.offset(f, 1)
}

// Time maps instants onto a continuous range
type Time struct {
	start, end time.Time
	r0, r1     float64
}

// NewTime creates a time scale from [start, end] to [r0, r1]
func NewTime(start, end time.Time, r0, r1 float64) Time {
	return Time{start: start, end: end, r0: r0, r1: r1}
}

// Domain returns the scale's input interval
func (s Time) Domain() (time.Time, time.Time) { return s.start, s.end }

// Range returns the scale's output interval
func (s Time) Range() (float64, float64) { return s.r0, s.r1 }

// Nice widens the domain to the boundaries of the tick interval suited to
// about count ticks. A degenerate domain is returned unchanged.
func (s Time) Nice(count int) Time {
	if !s.end.After(s.start) {
		return s
	}
	iv := chooseInterval(s.start, s.end, count)
	s.start = iv.floor(s.start)
	s.end = iv.ceil(s.end)
	return s
}

// Map returns the range value for t
func (s Time) Map(t time.Time) float64 {
	span := s.end.Sub(s.start)
	if span == 0 {
		return interpolate(s.r0, s.r1, 0.5)
	}
	return interpolate(s.r0, s.r1, float64(t.Sub(s.start))/float64(span))
}

// Invert returns the instant at range value px. The domain ends are
// returned exactly so that comparisons against them stay inclusive.
func (s Time) Invert(px float64) time.Time {
	frac := normalize(s.r0, s.r1, px)
	switch {
	case frac <= 0:
		return s.start
	case frac >= 1:
		return s.end
	}
	return s.start.Add(time.Duration(math.Round(frac * float64(s.end.Sub(s.start)))))
}

// TimeTick is one labelled tick of a time axis
type TimeTick struct {
	At    time.Time
	Label string
}

// Ticks returns about count ticks on calendar boundaries within the domain
func (s Time) Ticks(count int) []TimeTick {
	start, end := s.start, s.end
	if end.Before(start) {
		start, end = end, start
	}
	if !end.After(start) {
		return []TimeTick{{At: start, Label: TickLabel(start)}}
	}

	iv := chooseInterval(start, end, count)
	var ticks []TimeTick
	for t := iv.ceil(start); !t.After(end); t = iv.offset(t, 1) {
		ticks = append(ticks, TimeTick{At: t, Label: TickLabel(t)})
	}
	return ticks
}

// TickLabel formats t at the coarsest precision that still distinguishes it:
// seconds, minutes, hours, weekdays, weeks, months, then years.
func TickLabel(t time.Time) string {
	switch {
	case t.Second() != 0:
		return t.Format(":05")
	case t.Minute() != 0:
		return t.Format("03:04")
	case t.Hour() != 0:
		return t.Format("03 PM")
	case t.Day() != 1:
		if t.Weekday() != time.Sunday {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}
