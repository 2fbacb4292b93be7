package render

import (
	"encoding/json"

	"github.com/matzehuels/bandfill/pkg/fill"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	fillID  string
}

// WithJSONCompact writes the document on a single line.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONFillID records the id of the fill pass that produced the document.
func WithJSONFillID(id string) JSONOption { return func(r *jsonRenderer) { r.fillID = id } }

type jsonOutput struct {
	Name       string     `json:"name"`
	FillID     string     `json:"fill_id,omitempty"`
	PageWidth  int        `json:"page_width"`
	PageHeight int        `json:"page_height"`
	PageCount  int        `json:"page_count"`
	Pages      []jsonPage `json:"pages"`
}

type jsonPage struct {
	Index    int            `json:"index"`
	Number   int            `json:"number"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Bands    []string       `json:"bands,omitempty"`
	Elements []fill.Element `json:"elements"`
}

// RenderJSON exports the filled document: its page size and, for each page,
// the bands in top-down order and every placed element with absolute
// coordinates in points. Pages are written in output order.
func RenderJSON(doc *fill.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:       doc.Name,
		FillID:     r.fillID,
		PageWidth:  doc.PageWidth,
		PageHeight: doc.PageHeight,
		PageCount:  len(doc.Pages),
		Pages:      make([]jsonPage, 0, len(doc.Pages)),
	}
	for _, p := range doc.Pages {
		elems := p.Elements
		if elems == nil {
			elems = []fill.Element{}
		}
		out.Pages = append(out.Pages, jsonPage{
			Index:    p.Index,
			Number:   p.Number,
			Width:    p.Width,
			Height:   p.Height,
			Bands:    p.Bands(),
			Elements: elems,
		})
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeJSON reads a document written by [RenderJSON].
func DecodeJSON(data []byte) (*fill.Document, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	doc := &fill.Document{Name: in.Name, PageWidth: in.PageWidth, PageHeight: in.PageHeight}
	for _, p := range in.Pages {
		doc.Pages = append(doc.Pages, &fill.Page{
			Index:    p.Index,
			Number:   p.Number,
			Width:    p.Width,
			Height:   p.Height,
			Elements: p.Elements,
		})
	}
	return doc, nil
}
