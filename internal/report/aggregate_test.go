package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buglens/buglens/internal/models"
)

func issueWith(fields map[string]interface{}) models.Issue {
	return models.Issue{Fields: fields}
}

func TestAggregate_ComponentScenario(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"component": "Networking"}),
		issueWith(map[string]interface{}{"component": "Storage"}),
		issueWith(map[string]interface{}{"component": "Networking"}),
	}

	got := Aggregate(issues, "component")

	require.Len(t, got, 2)
	assert.Equal(t, models.GroupedCount{Label: "Networking", Count: 2}, got[0])
	assert.Equal(t, models.GroupedCount{Label: "Storage", Count: 1}, got[1])
}

func TestAggregate_ExcludesMissingField(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"qa_contact": "alice"}),
		issueWith(map[string]interface{}{"summary": "no qa contact here"}),
	}

	got := Aggregate(issues, "qa_contact")

	require.Len(t, got, 1)
	assert.Equal(t, models.GroupedCount{Label: "alice", Count: 1}, got[0])
}

func TestAggregate_ExcludesNullAndEmpty(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"creator": nil}),
		issueWith(map[string]interface{}{"creator": ""}),
		issueWith(map[string]interface{}{"creator": "bob"}),
	}

	got := Aggregate(issues, "creator")

	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].Label)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, "component"))
	assert.Empty(t, Aggregate([]models.Issue{}, "component"))
}

func TestAggregate_CountsSumToTaggedRecords(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"assigned_to": "a"}),
		issueWith(map[string]interface{}{"assigned_to": "b"}),
		issueWith(map[string]interface{}{"assigned_to": "a"}),
		issueWith(map[string]interface{}{"assigned_to": "c"}),
		issueWith(map[string]interface{}{"summary": "unassigned"}),
	}

	got := Aggregate(issues, "assigned_to")

	sum := 0
	for _, g := range got {
		sum += g.Count
	}
	assert.Equal(t, 4, sum, "counts must sum to records with a non-empty value")
}

func TestAggregate_SortedByCountDescending(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"component": "A"}),
		issueWith(map[string]interface{}{"component": "B"}),
		issueWith(map[string]interface{}{"component": "B"}),
		issueWith(map[string]interface{}{"component": "C"}),
		issueWith(map[string]interface{}{"component": "C"}),
		issueWith(map[string]interface{}{"component": "C"}),
	}

	got := Aggregate(issues, "component")

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
}

func TestAggregate_TiesBrokenLexically(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"component": "zeta"}),
		issueWith(map[string]interface{}{"component": "alpha"}),
		issueWith(map[string]interface{}{"component": "mid"}),
	}

	got := Aggregate(issues, "component")

	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].Label)
	assert.Equal(t, "mid", got[1].Label)
	assert.Equal(t, "zeta", got[2].Label)
}

func TestAggregate_ListValuedFieldUsesFirstElement(t *testing.T) {
	issues := []models.Issue{
		issueWith(map[string]interface{}{"component": []interface{}{"Networking", "Other"}}),
		issueWith(map[string]interface{}{"component": "Networking"}),
	}

	got := Aggregate(issues, "component")

	require.Len(t, got, 1)
	assert.Equal(t, models.GroupedCount{Label: "Networking", Count: 2}, got[0])
}
