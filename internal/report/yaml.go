package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/buglens/buglens/internal/models"
)

// RunReport is the YAML snapshot of one reporting run.
type RunReport struct {
	RunID       string                `yaml:"run_id"`
	GeneratedAt time.Time             `yaml:"generated_at"`
	Tracker     string                `yaml:"tracker"`
	GroupField  string                `yaml:"group_field"`
	TotalIssues int                   `yaml:"total_issues"`
	Counts      []models.GroupedCount `yaml:"counts"`
}

// NewRunReport builds a report snapshot from a completed run.
func NewRunReport(runID, tracker, field string, totalIssues int, counts []models.GroupedCount) RunReport {
	return RunReport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Tracker:     tracker,
		GroupField:  field,
		TotalIssues: totalIssues,
		Counts:      counts,
	}
}

// Save writes the report as <field>-report.yaml into dir and returns the
// written path.
func (r RunReport) Save(dir string) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, r.GroupField+"-report.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run report %s: %w", path, err)
	}

	return path, nil
}
