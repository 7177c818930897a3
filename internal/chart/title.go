package chart

import (
	"fmt"
	"strings"

	"github.com/buglens/buglens/internal/models"
)

// BuildTitle derives the chart title from the union of statuses across
// all query definitions and the grouping field, e.g.
// "NEW, ASSIGNED issues by Component".
func BuildTitle(queries []models.QueryDefinition, field string) string {
	statuses := distinctValues(queries, "status")
	if len(statuses) == 0 {
		return fmt.Sprintf("Issues by %s", capitalize(field))
	}
	return fmt.Sprintf("%s issues by %s", strings.Join(statuses, ", "), capitalize(field))
}

// ProductAnnotation returns the union of product filters across all
// query definitions, empty when no query filters on product.
func ProductAnnotation(queries []models.QueryDefinition) string {
	return strings.Join(distinctValues(queries, "product"), ", ")
}

// distinctValues collects the values of one filter field across all
// queries, deduplicated with first-seen order preserved.
func distinctValues(queries []models.QueryDefinition, field string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, q := range queries {
		for _, v := range q.Values(field) {
			if seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
