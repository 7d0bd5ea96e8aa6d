package render

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin   = 20.0
	pdfBoxSize  = 4.0
	pdfLineH    = 7.0
	pdfTextFrom = pdfMargin + pdfBoxSize + 3
)

// PDF writes p as a printable A4 checklist.
func PDF(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "Tasks"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetTitle(p.Title, true)
	if !p.Date.IsZero() {
		pdf.SetCreationDate(p.Date)
	}
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(p.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, tr(FormatDate(p.Date, "")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	if len(p.Tasks) == 0 {
		pdf.CellFormat(0, pdfLineH, "No tasks", "", 1, "L", false, 0, "")
	}

	pageWidth, _ := pdf.GetPageSize()
	textWidth := pageWidth - pdfTextFrom - pdfMargin

	for _, t := range p.Tasks {
		y := pdf.GetY()
		boxY := y + (pdfLineH-pdfBoxSize)/2
		pdf.Rect(pdfMargin, boxY, pdfBoxSize, pdfBoxSize, "D")
		if t.Completed {
			pdf.Line(pdfMargin+0.8, boxY+2.2, pdfMargin+1.8, boxY+3.2)
			pdf.Line(pdfMargin+1.8, boxY+3.2, pdfMargin+3.4, boxY+0.8)
			pdf.SetTextColor(140, 140, 140)
		}

		pdf.SetXY(pdfTextFrom, y)
		pdf.MultiCell(textWidth, pdfLineH, tr(Sanitize(t.Text)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, p.ItemsLeft(), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
