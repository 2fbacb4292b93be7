package fill

import (
	"context"
	"errors"
	"testing"
)

// testBand is a band whose content is a single block of a given height. A
// content taller than the space offered is split across fills.
type testBand struct {
	name        string
	height      int
	content     int
	breakHeight int
	prevent     bool
	print       func(Evaluation) bool
	// y places the content below the top of the fragment.
	y int

	done      int
	lastStart int
	overflow  bool
	fills     int
	refills   int
}

func fixed(name string, h int) *testBand { return &testBand{name: name, height: h, content: h} }

func stretch(name string, h, content int) *testBand {
	return &testBand{name: name, height: h, content: content}
}

func (b *testBand) Name() string { return b.name }
func (b *testBand) Height() int  { return b.height }

func (b *testBand) EvaluatePrintWhen(ev Evaluation) (bool, error) {
	if b.print == nil {
		return true, nil
	}
	return b.print(ev), nil
}

func (b *testBand) HasPrintWhen() bool { return b.print != nil }

func (b *testBand) Evaluate(Evaluation) error {
	b.done, b.lastStart, b.overflow = 0, 0, false
	return nil
}

func (b *testBand) FillFixed() (Fragment, error) {
	b.fills++
	return b.fragment(b.height), nil
}

func (b *testBand) BreakHeight() int {
	if b.breakHeight > 0 {
		return b.breakHeight
	}
	return b.height
}

func (b *testBand) SplitPrevented() bool { return b.prevent }

func (b *testBand) Fill(available int) (Fragment, error) {
	b.fills++
	b.lastStart = b.done
	h := min(max(available, 0), b.content-b.done)
	b.done += h
	b.overflow = b.done < b.content
	return b.fragment(h), nil
}

func (b *testBand) Refill(available int) (Fragment, error) {
	b.refills++
	b.done = b.lastStart
	return b.Fill(available)
}

func (b *testBand) WillOverflow() bool { return b.overflow }

func (b *testBand) Rewind() error {
	b.done, b.overflow = b.lastStart, false
	return nil
}

func (b *testBand) fragment(h int) Fragment {
	if h == 0 {
		return Fragment{}
	}
	return Fragment{Height: h, Elements: []Element{{Key: b.name, Y: b.y, Width: 10, Height: h}}}
}

// printAfter returns a print condition that is false for the first n calls.
func printAfter(n int) func(Evaluation) bool {
	calls := 0
	return func(Evaluation) bool {
		calls++
		return calls > n
	}
}

// records is a data source of n records.
type records struct {
	n   int
	err error
}

func (r *records) Next(context.Context) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.n == 0 {
		return false, nil
	}
	r.n--
	return true, nil
}

// testCalc reports the group changes given per record, starting with the
// second record.
type testCalc struct {
	NoopCalculator
	ruptures [][]bool
	calls    int
	pages    []int
}

func (c *testCalc) InitializeVariables(reset, _ Scope) error {
	if reset == ScopeReport {
		c.calls = 0
		c.pages = nil
	}
	return nil
}

func (c *testCalc) EstimateGroupRuptures() ([]bool, error) {
	i := c.calls
	c.calls++
	if i < len(c.ruptures) {
		return c.ruptures[i], nil
	}
	return nil, nil
}

func (c *testCalc) SetPageNumber(n int) { c.pages = append(c.pages, n) }

var errBoom = errors.New("boom")

// failingHooks fails before every detail evaluation.
type failingHooks struct{ NoopHooks }

func (failingHooks) BeforeDetailEval() error { return errBoom }

// placed is the position of one element.
type placed struct {
	Band string
	X, Y int
	H    int
}

// layout projects a document onto element positions per page.
func layout(doc *Document) [][]placed {
	out := make([][]placed, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = []placed{}
		for _, e := range p.Elements {
			out[i] = append(out[i], placed{Band: e.Band, X: e.X, Y: e.Y, H: e.Height})
		}
	}
	return out
}

func geometry(height, columns int) Geometry {
	return Geometry{
		PageWidth:   100 * columns,
		PageHeight:  height,
		ColumnCount: columns,
		ColumnWidth: 100,
	}
}

func runFill(t *testing.T, r *Report, n int, opts ...Option) (*Document, error) {
	t.Helper()
	f, err := New(r, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = f.Fill(context.Background(), &records{n: n})
	doc, _ := f.Sink().(*Document)
	return doc, err
}

func mustFill(t *testing.T, r *Report, n int, opts ...Option) *Document {
	t.Helper()
	doc, err := runFill(t, r, n, opts...)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	return doc
}
