package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/buglens/buglens/internal/models"
)

// SavePDF writes a one-page PDF report into the given directory: title,
// run metadata, the grouped counts as a table and the bar chart embedded
// as an image. Returns the written path.
func (r *Renderer) SavePDF(counts []models.GroupedCount, title, annotation, field, runID string, totalIssues int, dir string) (string, error) {
	var png bytes.Buffer
	if err := r.Render(counts, title, annotation, &png); err != nil {
		return "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Run %s - generated %s - %d issues",
		runID, time.Now().UTC().Format(time.RFC3339), totalIssues), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Counts table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 7, capitalize(field), "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Count", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, c := range counts {
		pdf.CellFormat(120, 6, c.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", c.Count), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Embedded chart image, scaled to the content width
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("chart", opts, &png)
	pdf.ImageOptions("chart", 15, pdf.GetY(), 180, 0, false, opts, 0, "")

	if pdf.Err() {
		return "", fmt.Errorf("failed to build PDF report: %v", pdf.Error())
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, field+"-report.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF report %s: %w", path, err)
	}

	r.logger.Info().Str("path", path).Msg("Saved PDF report")
	return path, nil
}
