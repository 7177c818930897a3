package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buglens/buglens/internal/models"
)

func queryWith(filters map[string][]string) models.QueryDefinition {
	return models.QueryDefinition{Filters: filters}
}

func TestBuildTitle(t *testing.T) {
	queries := []models.QueryDefinition{
		queryWith(map[string][]string{"status": {"NEW", "ASSIGNED"}}),
		queryWith(map[string][]string{"status": {"ASSIGNED", "ON_QA"}}),
	}

	got := BuildTitle(queries, "component")

	assert.Equal(t, "NEW, ASSIGNED, ON_QA issues by Component", got)
}

func TestBuildTitle_NoStatuses(t *testing.T) {
	queries := []models.QueryDefinition{
		queryWith(map[string][]string{"product": {"Fedora"}}),
	}

	assert.Equal(t, "Issues by Qa_contact", BuildTitle(queries, "qa_contact"))
}

func TestProductAnnotation(t *testing.T) {
	queries := []models.QueryDefinition{
		queryWith(map[string][]string{"product": {"Fedora"}}),
		queryWith(map[string][]string{"product": {"CentOS", "Fedora"}}),
	}

	assert.Equal(t, "Fedora, CentOS", ProductAnnotation(queries))
}

func TestProductAnnotation_Empty(t *testing.T) {
	queries := []models.QueryDefinition{
		queryWith(map[string][]string{"status": {"NEW"}}),
	}

	assert.Equal(t, "", ProductAnnotation(queries))
}
