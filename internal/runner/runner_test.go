package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/buglens/buglens/internal/models"
)

// fakeTracker returns canned results keyed by the "product" filter value.
type fakeTracker struct {
	results map[string][]models.Issue
	err     error
	calls   []string
}

func (f *fakeTracker) Name() string { return "fake" }

func (f *fakeTracker) Ping(ctx context.Context) error { return nil }

func (f *fakeTracker) Search(ctx context.Context, query models.QueryDefinition) ([]models.Issue, error) {
	product := ""
	if vals := query.Values("product"); len(vals) > 0 {
		product = vals[0]
	}
	f.calls = append(f.calls, product)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[product], nil
}

func queryFor(product string) models.QueryDefinition {
	return models.QueryDefinition{
		Filters: map[string][]string{"product": {product}},
	}
}

func issue(id int) models.Issue {
	return models.Issue{ID: id, Fields: map[string]interface{}{"id": float64(id)}}
}

func TestRun_UnionLengthEqualsSumOfQueries(t *testing.T) {
	tracker := &fakeTracker{
		results: map[string][]models.Issue{
			"a": {issue(1), issue(2)},
			"b": {issue(3)},
			"c": {},
		},
	}
	r := NewRunner(tracker, arbor.NewLogger())

	got, err := r.Run(context.Background(), []models.QueryDefinition{
		queryFor("a"), queryFor("b"), queryFor("c"),
	})

	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRun_DeclarationOrderPreserved(t *testing.T) {
	tracker := &fakeTracker{
		results: map[string][]models.Issue{
			"a": {issue(10), issue(11)},
			"b": {issue(20)},
		},
	}
	r := NewRunner(tracker, arbor.NewLogger())

	got, err := r.Run(context.Background(), []models.QueryDefinition{
		queryFor("b"), queryFor("a"),
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a"}, tracker.calls)
	assert.Equal(t, 20, got[0].ID)
	assert.Equal(t, 10, got[1].ID)
	assert.Equal(t, 11, got[2].ID)
}

func TestRun_OverlappingQueriesAreNotDeduplicated(t *testing.T) {
	tracker := &fakeTracker{
		results: map[string][]models.Issue{
			"a": {issue(1)},
		},
	}
	r := NewRunner(tracker, arbor.NewLogger())

	// Two definitions matching the same single issue
	got, err := r.Run(context.Background(), []models.QueryDefinition{
		queryFor("a"), queryFor("a"),
	})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRun_FirstFailureAbortsRun(t *testing.T) {
	wantErr := errors.New("auth expired")
	tracker := &fakeTracker{err: wantErr}
	r := NewRunner(tracker, arbor.NewLogger())

	got, err := r.Run(context.Background(), []models.QueryDefinition{
		queryFor("a"), queryFor("b"),
	})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, wantErr)
	assert.Contains(t, err.Error(), "query 1")
	// The second query must never execute
	assert.Equal(t, []string{"a"}, tracker.calls)
}

func TestRun_NoQueries(t *testing.T) {
	r := NewRunner(&fakeTracker{}, arbor.NewLogger())

	_, err := r.Run(context.Background(), nil)
	assert.Error(t, err)
}
