package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/bandfill/pkg/fill"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	gap      int
	fontSize float64
	outlines bool
}

// WithPageGap sets the vertical space between stacked pages. Default 20.
func WithPageGap(gap int) SVGOption { return func(r *svgRenderer) { r.gap = gap } }

// WithFontSize sets the text size in points. Default 10.
func WithFontSize(size float64) SVGOption { return func(r *svgRenderer) { r.fontSize = size } }

// WithOutlines draws the box of every element, which shows where bands
// were placed.
func WithOutlines() SVGOption { return func(r *svgRenderer) { r.outlines = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{gap: 20, fontSize: 10}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the pages of doc stacked vertically in one SVG image.
func RenderSVG(doc *fill.Document, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	width, height := 0, 0
	for i, p := range doc.Pages {
		width = max(width, p.Width)
		height += p.Height
		if i > 0 {
			height += r.gap
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <style>text { font-family: Helvetica, Arial, sans-serif; font-size: %.1fpx; }</style>`+"\n", r.fontSize)

	top := 0
	for _, p := range doc.Pages {
		r.renderPage(&buf, p, top)
		top += p.Height + r.gap
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderPage(buf *bytes.Buffer, p *fill.Page, top int) {
	fmt.Fprintf(buf, `  <g id="page-%d" transform="translate(0 %d)">`+"\n", p.Index+1, top)
	fmt.Fprintf(buf, `    <rect class="page" width="%d" height="%d" fill="white" stroke="#999"/>`+"\n", p.Width, p.Height)
	for _, e := range p.Elements {
		if r.outlines {
			fmt.Fprintf(buf, `    <rect class="element" x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#cde" stroke-dasharray="2 2"/>`+"\n",
				e.X, e.Y, e.Width, e.Height)
		}
		if e.Text == "" {
			continue
		}
		fmt.Fprintf(buf, `    <text x="%d" y="%.1f" data-band="%s">%s</text>`+"\n",
			e.X, float64(e.Y)+baseline(e, r.fontSize), escape(e.Band), escape(e.Text))
	}
	buf.WriteString("  </g>\n")
}

// baseline places text in the element box: at the font size below its top,
// or at its bottom when the box is shorter than the font.
func baseline(e fill.Element, fontSize float64) float64 {
	if h := float64(e.Height); h > 0 && h < fontSize {
		return h
	}
	return fontSize
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
