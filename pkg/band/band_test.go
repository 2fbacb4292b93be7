package band

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// values serves fields of the current record, and of the previous one for
// the old evaluation.
type values struct {
	cur, old map[string]any
	vars     map[string]any
}

func (v values) Field(name string, ev fill.Evaluation) (any, bool) {
	m := v.cur
	if ev == fill.EvalOld {
		m = v.old
	}
	x, ok := m[name]
	return x, ok
}

func (v values) Variable(name string, _ fill.Evaluation) (any, bool) {
	x, ok := v.vars[name]
	return x, ok
}

func texts(f fill.Fragment) []string {
	var out []string
	for _, e := range f.Elements {
		out = append(out, e.Text)
	}
	return out
}

func TestBandFillContinues(t *testing.T) {
	v := values{cur: map[string]any{"title": "Orders", "items": []any{"a", "b", "c"}}}
	b := MustNew(Config{
		Name:     "header",
		Height:   10,
		Elements: []Static{{Height: 10, Text: "$F{title}"}},
		Stretch:  &Stretch{Field: "items", LineHeight: 5},
	}, v)

	if err := b.Evaluate(fill.EvalDefault); err != nil {
		t.Fatal(err)
	}

	first, _ := b.Fill(17)
	if first.Height != 15 || !b.WillOverflow() {
		t.Fatalf("first fill: height %d, overflow %v", first.Height, b.WillOverflow())
	}
	if diff := cmp.Diff([]string{"Orders", "a"}, texts(first)); diff != "" {
		t.Errorf("first fill (-want +got):\n%s", diff)
	}

	second, _ := b.Fill(100)
	if second.Height != 10 || b.WillOverflow() {
		t.Fatalf("second fill: height %d, overflow %v", second.Height, b.WillOverflow())
	}
	if diff := cmp.Diff([]string{"b", "c"}, texts(second)); diff != "" {
		t.Errorf("second fill (-want +got):\n%s", diff)
	}
	if second.Elements[1].Y != 5 {
		t.Errorf("second line y = %d, want 5", second.Elements[1].Y)
	}
}

func TestBandRefillMakesProgress(t *testing.T) {
	b := MustNew(Config{Name: "summary", Height: 10, Elements: []Static{{Height: 10, Text: "total"}}}, nil)
	if err := b.Evaluate(fill.EvalDefault); err != nil {
		t.Fatal(err)
	}

	f, _ := b.Fill(5)
	if f.Height != 0 || !b.WillOverflow() {
		t.Fatalf("Fill(5): height %d, overflow %v", f.Height, b.WillOverflow())
	}

	f, _ = b.Refill(5)
	if f.Height != 10 || b.WillOverflow() {
		t.Errorf("Refill(5): height %d, overflow %v", f.Height, b.WillOverflow())
	}
}

func TestBandRewind(t *testing.T) {
	v := values{cur: map[string]any{"n": 4}}
	b := MustNew(Config{Name: "lines", Height: 0, Stretch: &Stretch{Field: "n", LineHeight: 10, Text: "line {line}"}}, v)
	if err := b.Evaluate(fill.EvalDefault); err != nil {
		t.Fatal(err)
	}

	if _, err := b.Fill(20); err != nil {
		t.Fatal(err)
	}
	if err := b.Rewind(); err != nil {
		t.Fatal(err)
	}
	f, _ := b.Fill(100)
	if diff := cmp.Diff([]string{"line 1", "line 2", "line 3", "line 4"}, texts(f)); diff != "" {
		t.Errorf("lines after rewind (-want +got):\n%s", diff)
	}
}

func TestBandFillFixed(t *testing.T) {
	tests := []struct {
		name       string
		shrink     bool
		wantHeight int
		wantTexts  []string
	}{
		{"Full", false, 20, []string{"", "page 3"}},
		{"Shrunk", true, 10, []string{"page 3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := values{cur: map[string]any{"note": ""}, vars: map[string]any{"PAGE_NUMBER": 3}}
			b := MustNew(Config{
				Name:   "footer",
				Height: 20,
				Shrink: tt.shrink,
				Elements: []Static{
					{Y: 10, Height: 10, Text: "$F{note}"},
					{Y: 0, Height: 10, Text: "page $V{PAGE_NUMBER}"},
				},
			}, v)
			if err := b.Evaluate(fill.EvalDefault); err != nil {
				t.Fatal(err)
			}
			f, err := b.FillFixed()
			if err != nil {
				t.Fatal(err)
			}
			if f.Height != tt.wantHeight {
				t.Errorf("height = %d, want %d", f.Height, tt.wantHeight)
			}
			if diff := cmp.Diff(tt.wantTexts, texts(f)); diff != "" {
				t.Errorf("texts (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBandEvaluationModes(t *testing.T) {
	v := values{cur: map[string]any{"city": "Oslo"}, old: map[string]any{"city": "Bergen"}}
	b := MustNew(Config{Name: "footer", Height: 10, Elements: []Static{{Height: 10, Text: "$F{city}"}}}, v)

	for ev, want := range map[fill.Evaluation]string{fill.EvalDefault: "Oslo", fill.EvalOld: "Bergen"} {
		if err := b.Evaluate(ev); err != nil {
			t.Fatal(err)
		}
		f, _ := b.FillFixed()
		if got := f.Elements[0].Text; got != want {
			t.Errorf("%s: text = %q, want %q", ev, got, want)
		}
	}
}

func TestBandUnknownReference(t *testing.T) {
	b := MustNew(Config{Name: "detail", Height: 10, Elements: []Static{{Height: 10, Text: "$F{missing}"}}}, values{})
	err := b.Evaluate(fill.EvalDefault)
	if !errs.Is(err, errs.ErrCodeInvalidData) {
		t.Errorf("Evaluate() error = %v, want INVALID_DATA", err)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"EmptyName", Config{Height: 10}},
		{"NegativeHeight", Config{Name: "b", Height: -1}},
		{"ElementOutside", Config{Name: "b", Height: 10, Elements: []Static{{Y: 5, Height: 10}}}},
		{"StretchWithoutField", Config{Name: "b", Stretch: &Stretch{LineHeight: 5}}},
		{"BadPrintWhen", Config{Name: "b", PrintWhen: "$F{a} and $F{b}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, nil); !errs.Is(err, errs.ErrCodeInvalidTemplate) {
				t.Errorf("New() error = %v, want INVALID_TEMPLATE", err)
			}
		})
	}
}

func TestPrintWhen(t *testing.T) {
	v := values{cur: map[string]any{"flag": true, "empty": "", "kind": "a", "count": 0.0}}
	tests := []struct {
		expr string
		want bool
	}{
		{"$F{flag}", true},
		{"!$F{flag}", false},
		{"$F{empty}", false},
		{"!$F{empty}", true},
		{"$F{count}", false},
		{"$F{kind} == a", true},
		{`$F{kind} == "b"`, false},
		{"$F{kind} != b", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			b := MustNew(Config{Name: "b", PrintWhen: tt.expr}, v)
			got, err := b.EvaluatePrintWhen(fill.EvalDefault)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("EvaluatePrintWhen() = %v, want %v", got, tt.want)
			}
			if !b.HasPrintWhen() {
				t.Error("HasPrintWhen() = false")
			}
		})
	}
}

func TestBandConditionalElements(t *testing.T) {
	b := MustNew(Config{
		Name:   "detail",
		Height: 10,
		Elements: []Static{
			{Key: "always", Height: 10, Text: "x"},
			{Key: "group", Height: 10, Text: "g", PrintWhenGroupChanges: "city"},
			{Key: "page", Height: 10, Text: "p", FirstOnPage: true},
		},
	}, nil)

	keys := func() []string {
		if err := b.Evaluate(fill.EvalDefault); err != nil {
			t.Fatal(err)
		}
		f, _ := b.FillFixed()
		var out []string
		for _, e := range f.Elements {
			out = append(out, e.Key)
		}
		return out
	}

	b.SetNewGroup("city", true)
	b.SetNewPageColumn(true)
	if diff := cmp.Diff([]string{"always", "group", "page"}, keys()); diff != "" {
		t.Errorf("first fill (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"always"}, keys()); diff != "" {
		t.Errorf("second fill (-want +got):\n%s", diff)
	}
}

func TestResolver(t *testing.T) {
	v := values{vars: map[string]any{"PAGE_NUMBER": 7}}
	b := MustNew(Config{
		Name:   "pf",
		Height: 10,
		Elements: []Static{
			{Key: "now", Height: 10, Text: "page $V{PAGE_NUMBER}"},
			{Key: "total", Height: 10, Text: "of $V{PAGE_NUMBER}", EvalTime: EvalReport},
		},
	}, v)
	if err := b.Evaluate(fill.EvalDefault); err != nil {
		t.Fatal(err)
	}
	f, _ := b.FillFixed()
	if got := f.Elements[1].Text; got != "of $V{PAGE_NUMBER}" {
		t.Fatalf("deferred text = %q before resolution", got)
	}

	doc := fill.NewDocument("r")
	if err := doc.AddPage(&fill.Page{Elements: f.Elements}); err != nil {
		t.Fatal(err)
	}
	v.vars["PAGE_NUMBER"] = 9
	r := NewResolver(doc, v, b)
	if r.Deferred() != 1 {
		t.Fatalf("Deferred() = %d, want 1", r.Deferred())
	}
	if err := r.ResolveReport(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"page 7", "of 9"}, []string{doc.Pages[0].Elements[0].Text, doc.Pages[0].Elements[1].Text}); diff != "" {
		t.Errorf("resolved (-want +got):\n%s", diff)
	}
}

func TestRefs(t *testing.T) {
	got := Refs("$F{a} of $V{PAGE_NUMBER} and $F{b.c}")
	want := []Ref{{'F', "a"}, {'V', "PAGE_NUMBER"}, {'F', "b.c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Refs() (-want +got):\n%s", diff)
	}
}
