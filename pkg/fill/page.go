package fill

import "sort"

// Page is one output page and the content placed on it so far.
type Page struct {
	Index    int       `json:"index"`
	Number   int       `json:"number"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Elements []Element `json:"elements"`
}

func (p *Page) add(elems ...Element) {
	p.Elements = append(p.Elements, elems...)
}

// inSpan reports whether an element starting at y belongs to [top, bottom).
func inSpan(y, top, bottom int) bool {
	return y >= top && y < bottom
}

// BandElements returns the elements placed by the named band, in placement order.
func (p *Page) BandElements(band string) []Element {
	var out []Element
	for _, e := range p.Elements {
		if e.Band == band {
			out = append(out, e)
		}
	}
	return out
}

// Bands returns the distinct band names on the page ordered by first y.
func (p *Page) Bands() []string {
	first := make(map[string]int)
	for _, e := range p.Elements {
		if y, ok := first[e.Band]; !ok || e.Y < y {
			first[e.Band] = e.Y
		}
	}
	names := make([]string, 0, len(first))
	for n := range first {
		names = append(names, n)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if first[names[i]] != first[names[j]] {
			return first[names[i]] < first[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Document collects the pages of one fill pass. It is the default [Sink].
type Document struct {
	Name       string  `json:"name"`
	PageWidth  int     `json:"page_width"`
	PageHeight int     `json:"page_height"`
	Pages      []*Page `json:"pages"`
}

// NewDocument creates an empty document.
func NewDocument(name string) *Document {
	return &Document{Name: name}
}

// AddPage appends p. The first page fixes the document size.
func (d *Document) AddPage(p *Page) error {
	if len(d.Pages) == 0 {
		d.PageWidth, d.PageHeight = p.Width, p.Height
	}
	d.Pages = append(d.Pages, p)
	return nil
}

// SetPageHeight resizes the document and all of its pages.
func (d *Document) SetPageHeight(h int) {
	d.PageHeight = h
	for _, p := range d.Pages {
		p.Height = h
	}
}

// Reset drops all pages so the document can receive another fill pass.
func (d *Document) Reset() {
	d.Pages = nil
	d.PageWidth, d.PageHeight = 0, 0
}

// ElementCount returns the number of elements across all pages.
func (d *Document) ElementCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Elements)
	}
	return n
}

var _ Sink = (*Document)(nil)
