package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 277.0

// Document describes the framing of a PDF export.
type Document struct {
	Title    string
	Subtitle string
	// Widths are relative column weights; missing weights default to 1.
	Widths []float64
}

// PDFExporter renders datasets into a landscape tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with a heading and a table body.
func (e *PDFExporter) Render(data Dataset, doc Document) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, tr(doc.Title), "", 1, "L", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr(doc.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	widths := columnWidths(len(data.Headers), doc.Widths)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, record := range data.Records() {
		for i, value := range record {
			pdf.CellFormat(widths[i], 6, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int, weights []float64) []float64 {
	total := 0.0
	resolved := make([]float64, columns)
	for i := range resolved {
		w := 1.0
		if i < len(weights) && weights[i] > 0 {
			w = weights[i]
		}
		resolved[i] = w
		total += w
	}
	for i := range resolved {
		resolved[i] = resolved[i] / total * pageWidth
	}
	return resolved
}
