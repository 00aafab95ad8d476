package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// headings are drawn in #0d6efd
var headingColor = [3]int{0x0d, 0x6e, 0xfd}

// Filename is the attachment name of a student's report.
func Filename(studentID string) string {
	return fmt.Sprintf("rapport_pred_%s.pdf", studentID)
}

// Render lays out the bundle and writes it to w as a PDF document.
func (r *Renderer) Render(w io.Writer, b Bundle) error {
	doc, err := r.Layout(b)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(b.Student.FullName, true)
	if r.Now != nil {
		pdf.SetCreationDate(r.Now())
	}

	// core fonts are cp1252; accents and typographic quotes need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			applyStyle(pdf, line.Style)
			pdf.Text(line.X, line.Y, tr(line.Text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func applyStyle(pdf *fpdf.Fpdf, style Style) {
	switch style {
	case StyleTitle:
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(headingColor[0], headingColor[1], headingColor[2])
	case StyleHeading:
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(headingColor[0], headingColor[1], headingColor[2])
	case StyleText:
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(0, 0, 0)
	default:
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
	}
}
