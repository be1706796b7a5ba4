package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 277.0 // A4 landscape minus margins
	rowHeight  = 7.0
	headHeight = 8.0
)

// PDFExporter renders datasets into a landscape tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType returns the MIME type of Render output.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Render creates a PDF document with an optional title. Rows are split into
// sections on data.GroupBy, with the group column dropped from the table.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	columns := make([]string, 0, len(data.Headers))
	for _, h := range data.Headers {
		if h != data.GroupBy {
			columns = append(columns, h)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("pdf requires a column besides %q", data.GroupBy)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	colWidth := pageWidth / float64(len(columns))
	writeHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range columns {
			pdf.CellFormat(colWidth, headHeight, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	current := ""
	for i, row := range data.Rows {
		if data.GroupBy != "" && (i == 0 || row[data.GroupBy] != current) {
			current = row[data.GroupBy]
			if i > 0 {
				pdf.Ln(4)
			}
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 9, current, "", 1, "L", false, 0, "")
			writeHeader()
		} else if i == 0 {
			writeHeader()
		}
		for _, header := range columns {
			pdf.CellFormat(colWidth, rowHeight, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(data.Rows) == 0 {
		writeHeader()
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
