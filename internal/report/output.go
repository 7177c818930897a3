package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/buglens/buglens/internal/models"
)

// WriteIssues dumps every fetched issue to w, one block per issue with
// its fields listed alphabetically. The format is human-oriented; no
// downstream consumer parses it.
func WriteIssues(w io.Writer, issues []models.Issue) error {
	for _, issue := range issues {
		if _, err := fmt.Fprintf(w, "Issue %d:\n", issue.ID); err != nil {
			return err
		}

		names := make([]string, 0, len(issue.Fields))
		for name := range issue.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if _, err := fmt.Fprintf(w, "    %s: %v\n", name, issue.Fields[name]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteCounts prints the grouped counts as a two-column table, in
// aggregator order.
func WriteCounts(w io.Writer, field string, counts []models.GroupedCount) error {
	if _, err := fmt.Fprintf(w, "Issue counts by %s:\n", field); err != nil {
		return err
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "    %-40s %d\n", c.Label, c.Count); err != nil {
			return err
		}
	}
	return nil
}
