package pipeline

import (
	"fmt"

	"github.com/matzehuels/bandfill/pkg/fill"
	"github.com/matzehuels/bandfill/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(doc *fill.Document, fillID string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(doc, fillID, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format with the render options of opts.
func RenderFormat(doc *fill.Document, fillID, format string, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return render.RenderJSON(doc, render.WithJSONFillID(fillID))
	case render.FormatSVG:
		svgOpts := []render.SVGOption{render.WithFontSize(opts.FontSize)}
		if opts.Outlines {
			svgOpts = append(svgOpts, render.WithOutlines())
		}
		return render.RenderSVG(doc, svgOpts...), nil
	case render.FormatPDF:
		pdfOpts := []render.PDFOption{
			render.WithPDFTitle(doc.Name),
			render.WithPDFFontSize(opts.FontSize),
		}
		if opts.Outlines {
			pdfOpts = append(pdfOpts, render.WithPDFOutlines())
		}
		return render.RenderPDF(doc, pdfOpts...)
	}
	return nil, ValidateFormat(format)
}
