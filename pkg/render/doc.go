// Package render writes filled documents to JSON, SVG and PDF.
//
// Every renderer takes the [fill.Document] of a fill pass and draws each
// element's text at its absolute position; coordinates are points with
// the origin at the top left of the page.
//
//	data, err := render.RenderJSON(doc)            // pages and elements
//	svg := render.RenderSVG(doc, render.WithOutlines())
//	pdf, err := render.RenderPDF(doc)              // one PDF page per page
//
// The SVG stacks the pages vertically, separated by [WithPageGap]. The PDF
// uses the Helvetica core font through fpdf and a fixed creation date, so
// identical documents render to identical bytes and can be cached by
// content.
package render
