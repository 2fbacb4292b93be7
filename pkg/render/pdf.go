package render

import (
	"bytes"
	"time"

	"codeberg.org/go-pdf/fpdf"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// PDFOption configures PDF rendering via [RenderPDF].
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title    string
	fontSize float64
	outlines bool
	created  time.Time
}

// WithPDFTitle sets the document title. Defaults to the document name.
func WithPDFTitle(title string) PDFOption { return func(r *pdfRenderer) { r.title = title } }

// WithPDFFontSize sets the text size in points. Default 10.
func WithPDFFontSize(size float64) PDFOption { return func(r *pdfRenderer) { r.fontSize = size } }

// WithPDFOutlines draws the box of every element.
func WithPDFOutlines() PDFOption { return func(r *pdfRenderer) { r.outlines = true } }

// WithPDFCreationDate sets the creation date recorded in the file. The
// default is a fixed date so that identical documents give identical bytes.
func WithPDFCreationDate(t time.Time) PDFOption { return func(r *pdfRenderer) { r.created = t } }

// RenderPDF writes doc as a PDF with one PDF page per document page, sized
// in points. Text uses the Helvetica core font.
func RenderPDF(doc *fill.Document, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{
		title:    doc.Name,
		fontSize: 10,
		created:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&r)
	}

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("bandfill", true)
	pdf.SetCreationDate(r.created)
	pdf.SetModificationDate(r.created)
	pdf.SetCatalogSort(true)
	pdf.SetFont("Helvetica", "", r.fontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(doc.Pages) == 0 {
		// A PDF needs at least one page.
		pdf.AddPageFormat("P", pageSize(doc.PageWidth, doc.PageHeight))
	}
	for _, p := range doc.Pages {
		pdf.AddPageFormat("P", pageSize(p.Width, p.Height))
		for _, e := range p.Elements {
			if r.outlines {
				pdf.SetDrawColor(200, 210, 230)
				pdf.SetLineWidth(0.5)
				pdf.Rect(float64(e.X), float64(e.Y), float64(e.Width), float64(e.Height), "D")
			}
			if e.Text == "" {
				continue
			}
			pdf.Text(float64(e.X), float64(e.Y)+baseline(e, r.fontSize), tr(e.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func pageSize(w, h int) fpdf.SizeType {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return fpdf.SizeType{Wd: float64(w), Ht: float64(h)}
}
