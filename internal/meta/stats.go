package meta

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bravo68web/folio/internal/domain/models"
)

// Stat labels, in display order
const (
	StatTotalFiles     = "Total Files"
	StatTotalLOC       = "Total LOC"
	StatTotalCommits   = "Total commits"
	StatAvgFileLength  = "Avg File Length"
	StatMaxDepth       = "Max Depth"
	StatMostProductive = "Most Productive"
)

// Day periods used by the "Most Productive" stat
const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
	PeriodNight     = "night"
)

// DayPeriod buckets t by its hour: morning 06-12, afternoon 12-18,
// evening 18-21, night otherwise.
func DayPeriod(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return PeriodMorning
	case h >= 12 && h < 18:
		return PeriodAfternoon
	case h >= 18 && h < 21:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// Stats computes the stats panel from all rows and commits
func Stats(rows []models.Row, commits []models.Commit) []models.Stat {
	maxLine := make(map[string]int)
	var files []string
	maxDepth := 0

	periodRows := make(map[string]int)
	var periods []string

	for i, r := range rows {
		if cur, ok := maxLine[r.File]; !ok {
			files = append(files, r.File)
			maxLine[r.File] = r.Line
		} else if r.Line > cur {
			maxLine[r.File] = r.Line
		}

		if i == 0 || r.Depth > maxDepth {
			maxDepth = r.Depth
		}

		p := DayPeriod(r.Datetime)
		if _, ok := periodRows[p]; !ok {
			periods = append(periods, p)
		}
		periodRows[p]++
	}

	avg := 0.0
	if len(files) > 0 {
		sum := 0
		for _, f := range files {
			sum += maxLine[f]
		}
		avg = float64(sum) / float64(len(files))
	}

	// strict comparison keeps the first period seen on ties
	busiest, busiestRows := "", 0
	for _, p := range periods {
		if periodRows[p] > busiestRows {
			busiest, busiestRows = p, periodRows[p]
		}
	}

	return []models.Stat{
		intStat(StatTotalFiles, len(files)),
		intStat(StatTotalLOC, len(rows)),
		intStat(StatTotalCommits, len(commits)),
		{Label: StatAvgFileLength, Value: humanize.CommafWithDigits(avg, 2), Raw: avg},
		intStat(StatMaxDepth, maxDepth),
		{Label: StatMostProductive, Value: busiest, Raw: float64(busiestRows)},
	}
}

func intStat(label string, n int) models.Stat {
	return models.Stat{Label: label, Value: humanize.Comma(int64(n)), Raw: float64(n)}
}
