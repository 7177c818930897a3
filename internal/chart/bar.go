// Package chart renders grouped issue counts as bar charts, to PNG for
// standalone images and to PDF for full reports.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/buglens/buglens/internal/common"
	"github.com/buglens/buglens/internal/models"
)

// Renderer draws bar charts from grouped counts.
type Renderer struct {
	width     int
	height    int
	outputDir string
	logger    arbor.ILogger
}

// NewRenderer creates a renderer from chart configuration
func NewRenderer(config common.ChartConfig, logger arbor.ILogger) *Renderer {
	return &Renderer{
		width:     config.Width,
		height:    config.Height,
		outputDir: config.OutputDir,
		logger:    logger,
	}
}

// Render draws a PNG bar chart of the grouped counts to w, bars in the
// order given (aggregator order, count descending). The annotation, when
// non-empty, is appended to the title.
func (r *Renderer) Render(counts []models.GroupedCount, title, annotation string, w io.Writer) error {
	if len(counts) == 0 {
		return fmt.Errorf("nothing to plot: no issues had a value for the grouping field")
	}

	if annotation != "" {
		title = fmt.Sprintf("%s (%s)", title, annotation)
	}

	bars := make([]gochart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, gochart.Value{
			Label: c.Label,
			Value: float64(c.Count),
		})
	}

	graph := gochart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   40,
		BarSpacing: 20,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.Style{
			TextRotationDegrees: 90.0,
		},
		YAxis: gochart.YAxis{
			Name: "Issue Count",
		},
		Bars: bars,
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}

	return nil
}

// Save renders the chart and writes it as <field>.png into the output
// directory, returning the written path.
func (r *Renderer) Save(counts []models.GroupedCount, title, annotation, field string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory %s: %w", r.outputDir, err)
	}

	path := filepath.Join(r.outputDir, field+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()

	if err := r.Render(counts, title, annotation, f); err != nil {
		return "", err
	}

	r.logger.Info().Str("path", path).Msg("Saved bar chart")
	return path, nil
}
