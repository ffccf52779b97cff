package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"pricing_services/internal/view"
)

// Fixed widths per visible column, in mm. Rows run past the page boundary
// using the library's native page break, no custom pagination.
var pdfColumnWidths = []float64{42, 56, 24, 30, 38}

const pdfRowHeight = 8

// PDF encodes the entries as a fixed-width table under a centered title.
func PDF(title string, columns []string, entries []view.Entry) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	for i, col := range columns {
		pdf.CellFormat(pdfColumnWidths[i], pdfRowHeight, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		for i, cell := range recordFields(e.Record) {
			pdf.CellFormat(pdfColumnWidths[i], pdfRowHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
