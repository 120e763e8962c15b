// Package report renders a stored dataset summary into a fixed-layout
// single-page PDF.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"vista/internal/model"
)

// summaryFields is the subset of the stored blob the report shows. Pointers
// distinguish absent fields, which render as "N/A".
type summaryFields struct {
	TotalCount *int                `json:"total_count"`
	Averages   map[string]*float64 `json:"averages"`
}

// Render draws the report for one dataset: title, owner, source file,
// timestamp, and the summary scalars.
func Render(w io.Writer, username string, dataset *model.Dataset) error {
	var fields summaryFields
	if err := json.Unmarshal(dataset.Summary, &fields); err != nil {
		return fmt.Errorf("decode stored summary failed: %w", err)
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(100, 60, "V.I.S.T.A. Analytics Report")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(100, 78, fmt.Sprintf("User: %s", username))
	pdf.Text(100, 93, fmt.Sprintf("Source: %s", dataset.FileName))
	pdf.Text(100, 108, fmt.Sprintf("Generated: %s", dataset.CreatedAt.Format("2006-01-02 15:04")))

	pdf.Line(100, 122, 500, 122)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(100, 150, fmt.Sprintf("Total Equipment: %s", intOrNA(fields.TotalCount)))
	pdf.Text(100, 170, fmt.Sprintf("Avg Flowrate: %s m3/h", floatOrNA(fields.Averages["avg_flowrate"])))
	pdf.Text(100, 190, fmt.Sprintf("Avg Pressure: %s PSI", floatOrNA(fields.Averages["avg_pressure"])))
	pdf.Text(100, 210, fmt.Sprintf("Avg Temp: %s C", floatOrNA(fields.Averages["avg_temp"])))

	return pdf.Output(w)
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
