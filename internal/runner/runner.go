// Package runner executes query definitions against a tracker backend
// and accumulates the results.
package runner

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/buglens/buglens/internal/models"
	"github.com/buglens/buglens/internal/trackers"
)

// Runner executes query definitions sequentially against one tracker.
type Runner struct {
	tracker trackers.Tracker
	logger  arbor.ILogger
}

// NewRunner creates a new query runner
func NewRunner(tracker trackers.Tracker, logger arbor.ILogger) *Runner {
	return &Runner{
		tracker: tracker,
		logger:  logger,
	}
}

// Run executes every query definition in declaration order and returns
// the concatenation of their results. Issues matched by more than one
// definition appear once per match; nothing is deduplicated. The first
// failing query aborts the run.
func (r *Runner) Run(ctx context.Context, queries []models.QueryDefinition) ([]models.Issue, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("no query definitions to run")
	}

	var issues []models.Issue
	for i, query := range queries {
		batch, err := r.tracker.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i+1, err)
		}

		r.logger.Info().
			Str("tracker", r.tracker.Name()).
			Int("query", i+1).
			Int("issues", len(batch)).
			Msg("Query completed")

		issues = append(issues, batch...)
	}

	r.logger.Info().
		Int("queries", len(queries)).
		Int("totalIssues", len(issues)).
		Msg("All queries completed")

	return issues, nil
}
