package band

import (
	"github.com/matzehuels/bandfill/pkg/fill"
)

// Resolver expands the text of elements evaluated at report time once the
// fill pass is over. Every other scope resolves immediately.
type Resolver struct {
	fill.NoopResolver

	doc    *fill.Document
	values Values
	keys   map[string]bool
}

// NewResolver creates a resolver for the deferred elements of bands, whose
// pages are collected in doc.
func NewResolver(doc *fill.Document, values Values, bands ...*Band) *Resolver {
	keys := make(map[string]bool)
	for _, b := range bands {
		for _, k := range b.DeferredKeys() {
			keys[k] = true
		}
	}
	return &Resolver{doc: doc, values: values, keys: keys}
}

// Deferred reports how many element keys wait for the end of the report.
func (r *Resolver) Deferred() int { return len(r.keys) }

// ResolveReport expands the deferred elements on every page with the final values.
func (r *Resolver) ResolveReport() error {
	if len(r.keys) == 0 {
		return nil
	}
	for _, p := range r.doc.Pages {
		for i := range p.Elements {
			e := &p.Elements[i]
			if !r.keys[e.Key] {
				continue
			}
			t, err := Expand(e.Text, r.values, fill.EvalDefault)
			if err != nil {
				return err
			}
			e.Text = t
		}
	}
	return nil
}

var _ fill.Resolver = (*Resolver)(nil)
