package meta

import (
	"fmt"

	"github.com/bravo68web/folio/internal/domain/models"
)

// Breakdown groups rows by type in first-seen order. Percentages are shares
// of len(rows). No rows gives a nil result rather than zero-valued entries.
func Breakdown(rows []models.Row) []models.LanguageShare {
	if len(rows) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		if _, ok := counts[r.Type]; !ok {
			order = append(order, r.Type)
		}
		counts[r.Type]++
	}

	out := make([]models.LanguageShare, 0, len(order))
	for _, typ := range order {
		pct := 100 * float64(counts[typ]) / float64(len(rows))
		out = append(out, models.LanguageShare{
			Type:      typ,
			Lines:     counts[typ],
			Percent:   pct,
			Formatted: fmt.Sprintf("%.1f%%", pct),
		})
	}
	return out
}
