// Package report turns fetched issues into grouped counts, textual dumps
// and YAML run reports.
package report

import (
	"sort"

	"github.com/buglens/buglens/internal/models"
)

// Aggregate tallies issues by the value of the named grouping field.
// Issues with a missing or empty value are excluded from the tally.
// The result is sorted by count descending; equal counts are ordered
// lexically by label so output is deterministic.
func Aggregate(issues []models.Issue, field string) []models.GroupedCount {
	counts := make(map[string]int)
	for _, issue := range issues {
		value := issue.StringField(field)
		if value == "" {
			continue
		}
		counts[value]++
	}

	grouped := make([]models.GroupedCount, 0, len(counts))
	for label, count := range counts {
		grouped = append(grouped, models.GroupedCount{Label: label, Count: count})
	}

	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].Count != grouped[j].Count {
			return grouped[i].Count > grouped[j].Count
		}
		return grouped[i].Label < grouped[j].Label
	})

	return grouped
}
