package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Section is a titled block of rows in a PDF document.
type Section struct {
	Heading string
	Data    Dataset
}

// PDFExporter renders sections into a tabular PDF. Core fonts only cover
// Latin-1; set FontPath to a UTF-8 TrueType font to print CJK text.
type PDFExporter struct {
	FontPath string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{FontPath: fontPath}
}

// Render creates a PDF document with a title and one table per section.
func (e *PDFExporter) Render(title string, sections []Section) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	family := "Arial"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if e.FontPath != "" {
		family = "body"
		pdf.AddUTF8Font(family, "", e.FontPath)
		pdf.AddUTF8Font(family, "B", e.FontPath)
		translate = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}

	pdf.AddPage()
	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, translate(title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	for _, section := range sections {
		if len(section.Data.Headers) == 0 {
			return nil, fmt.Errorf("pdf section %q has no headers", section.Heading)
		}
		if section.Heading != "" {
			pdf.SetFont(family, "B", 12)
			pdf.CellFormat(0, 9, translate(section.Heading), "", 1, "L", false, 0, "")
		}

		pdf.SetFont(family, "B", 10)
		colWidth := 190.0 / float64(len(section.Data.Headers))
		for _, header := range section.Data.Headers {
			pdf.CellFormat(colWidth, 8, translate(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(family, "", 9)
		for _, row := range section.Data.Rows {
			for _, header := range section.Data.Headers {
				pdf.CellFormat(colWidth, 7, translate(row[header]), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
