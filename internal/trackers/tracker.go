// Package trackers defines the bug-tracking backend abstraction consumed
// by the query runner.
package trackers

import (
	"context"

	"github.com/buglens/buglens/internal/models"
)

// Tracker is a bug-tracking service backend. Implementations own all
// wire-protocol, authentication and session concerns; callers only see
// issues matching a query definition.
type Tracker interface {
	// Name identifies the backend ("bugzilla", "github").
	Name() string

	// Ping verifies the service is reachable.
	Ping(ctx context.Context) error

	// Search executes one query definition and returns every matching
	// issue, restricted to the definition's include_fields when set.
	Search(ctx context.Context, query models.QueryDefinition) ([]models.Issue, error)
}
