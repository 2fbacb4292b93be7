package band

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// SplitType says what happens to a band that does not fit in the space left.
type SplitType int

const (
	// SplitStretch lets the band continue on the next page.
	SplitStretch SplitType = iota
	// SplitPrevent moves the whole band to the next page.
	SplitPrevent
)

// String returns "stretch" or "prevent".
func (s SplitType) String() string {
	if s == SplitPrevent {
		return "prevent"
	}
	return "stretch"
}

// ParseSplitType returns the split type with the given name. The empty
// string is [SplitStretch].
func ParseSplitType(s string) (SplitType, bool) {
	switch s {
	case "", "stretch":
		return SplitStretch, true
	case "prevent":
		return SplitPrevent, true
	}
	return SplitStretch, false
}

// EvalTime is when the text of a static element is evaluated.
type EvalTime int

const (
	// EvalNow expands the text when the band is filled.
	EvalNow EvalTime = iota
	// EvalReport leaves the references in place until the whole report is
	// filled; a [Resolver] expands them with the final values.
	EvalReport
)

// Static is a fixed element of a band. Text may reference fields as
// $F{name} and variables as $V{name}.
type Static struct {
	Key    string
	X      int
	Y      int
	Width  int
	Height int
	Text   string

	EvalTime EvalTime

	// PrintWhenGroupChanges prints the element only in the first fill after
	// the named group started.
	PrintWhenGroupChanges string

	// FirstOnPage prints the element only in the first fill on a new page
	// or column.
	FirstOnPage bool
}

// Stretch is a run of lines below the static part of a band. The number of
// lines comes from a field holding either a list, one line per item, or a
// count, one line per unit with {line} in Text replaced by the line number.
type Stretch struct {
	Field      string
	LineHeight int
	X          int
	Width      int
	Text       string
}

// Config describes a band.
type Config struct {
	Name        string
	Height      int
	BreakHeight int
	Split       SplitType
	Shrink      bool
	PrintWhen   string
	Elements    []Static
	Stretch     *Stretch
}

// Values supplies field and variable values by evaluation mode.
type Values interface {
	Field(name string, ev fill.Evaluation) (any, bool)
	Variable(name string, ev fill.Evaluation) (any, bool)
}

// Band is a template section made of static elements and an optional
// stretch of lines. It fills from where the previous fill stopped, so one
// band may continue over several pages.
type Band struct {
	cfg       Config
	values    Values
	printWhen *condition

	texts  []string
	lines  []string
	pos    int
	last   int
	over   bool
	fresh  bool
	groups map[string]bool
}

// New creates a band. Values may be nil for bands without references.
func New(cfg Config, values Values) (*Band, error) {
	if err := errs.ValidateName("band", cfg.Name); err != nil {
		return nil, err
	}
	if cfg.Height < 0 || cfg.BreakHeight < 0 {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "band %s: negative height", cfg.Name)
	}
	for i, e := range cfg.Elements {
		if e.Y < 0 || e.Height < 0 || e.Y+e.Height > cfg.Height {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "band %s: element %d lies outside the band height %d", cfg.Name, i, cfg.Height)
		}
	}
	if s := cfg.Stretch; s != nil && (s.Field == "" || s.LineHeight <= 0) {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "band %s: stretch needs a field and a positive line height", cfg.Name)
	}
	cond, err := parseCondition(cfg.PrintWhen)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidTemplate, err, "band %s: print when", cfg.Name)
	}
	return &Band{cfg: cfg, values: values, printWhen: cond, groups: make(map[string]bool)}, nil
}

// MustNew is like [New] but panics on an invalid configuration.
func MustNew(cfg Config, values Values) *Band {
	b, err := New(cfg, values)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Band) Name() string { return b.cfg.Name }
func (b *Band) Height() int  { return b.cfg.Height }

// BreakHeight defaults to the declared height.
func (b *Band) BreakHeight() int {
	if b.cfg.BreakHeight > 0 {
		return b.cfg.BreakHeight
	}
	return b.cfg.Height
}

func (b *Band) SplitPrevented() bool { return b.cfg.Split == SplitPrevent }
func (b *Band) WillOverflow() bool   { return b.over }
func (b *Band) HasPrintWhen() bool   { return b.printWhen != nil }

// Stretches reports whether the band has stretch lines.
func (b *Band) Stretches() bool { return b.cfg.Stretch != nil }

func (b *Band) EvaluatePrintWhen(ev fill.Evaluation) (bool, error) {
	if b.printWhen == nil {
		return true, nil
	}
	ok, err := b.printWhen.eval(b.values, ev)
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeInvalidData, err, "band %s", b.cfg.Name)
	}
	return ok, nil
}

// Evaluate expands the element texts and the stretch lines with the values
// of ev and rewinds the band to its start.
func (b *Band) Evaluate(ev fill.Evaluation) error {
	b.texts = make([]string, len(b.cfg.Elements))
	for i, e := range b.cfg.Elements {
		if e.EvalTime == EvalReport {
			b.texts[i] = e.Text
			continue
		}
		t, err := Expand(e.Text, b.values, ev)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidData, err, "band %s", b.cfg.Name)
		}
		b.texts[i] = t
	}

	b.lines = nil
	if s := b.cfg.Stretch; s != nil {
		lines, err := b.stretchLines(s, ev)
		if err != nil {
			return err
		}
		b.lines = lines
	}
	b.pos, b.last, b.over = 0, 0, false
	return nil
}

func (b *Band) stretchLines(s *Stretch, ev fill.Evaluation) ([]string, error) {
	v, ok := lookup(b.values, 'F', s.Field, ev)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidData, "band %s: unknown field %q", b.cfg.Name, s.Field)
	}
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = format(item)
		}
		return out, nil
	}
	n, err := strconv.Atoi(format(v))
	if err != nil || n < 0 {
		return nil, errs.New(errs.ErrCodeInvalidData, "band %s: field %q is neither a list nor a count", b.cfg.Name, s.Field)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strings.ReplaceAll(s.Text, "{line}", strconv.Itoa(i+1))
	}
	return out, nil
}

// SetNewPageColumn implements [fill.PageColumnAware].
func (b *Band) SetNewPageColumn(fresh bool) { b.fresh = fresh }

// SetNewGroup implements [fill.GroupAware].
func (b *Band) SetNewGroup(group string, started bool) { b.groups[group] = started }

// FillFixed produces the static part at the declared height. A shrinking
// band drops blank elements and reports the height of what is left.
func (b *Band) FillFixed() (fill.Fragment, error) {
	elems := b.staticElements(0)
	b.consumeFlags()

	height := b.cfg.Height
	if b.cfg.Shrink {
		kept := elems[:0]
		height = 0
		for _, e := range elems {
			if strings.TrimSpace(e.Text) == "" {
				continue
			}
			kept = append(kept, e)
			height = max(height, e.Y+e.Height)
		}
		elems = kept
	}
	return fill.Fragment{Height: height, Elements: elems}, nil
}

// Fill places as much of the band as fits into available, continuing after
// the previous fill. The static part is never split; lines go one by one.
func (b *Band) Fill(available int) (fill.Fragment, error) {
	return b.fill(available, false), nil
}

// Refill fills the content of the previous fill again. It always places at
// least one part so that a band moved to a fresh page makes progress.
func (b *Band) Refill(available int) (fill.Fragment, error) {
	b.pos = b.last
	return b.fill(available, true), nil
}

// Rewind undoes the previous fill.
func (b *Band) Rewind() error {
	b.pos, b.over = b.last, false
	return nil
}

func (b *Band) fill(available int, force bool) fill.Fragment {
	b.last = b.pos
	var frag fill.Fragment
	for b.pos < b.parts() {
		h := b.partHeight(b.pos)
		if frag.Height+h > available && !(force && frag.Height == 0 && len(frag.Elements) == 0) {
			break
		}
		frag.Elements = append(frag.Elements, b.partElements(b.pos, frag.Height)...)
		frag.Height += h
		b.pos++
	}
	b.over = b.pos < b.parts()
	b.consumeFlags()
	return frag
}

// parts is the static part followed by one part per line.
func (b *Band) parts() int { return 1 + len(b.lines) }

func (b *Band) partHeight(i int) int {
	if i == 0 {
		return b.cfg.Height
	}
	return b.cfg.Stretch.LineHeight
}

func (b *Band) partElements(i, y int) []fill.Element {
	if i == 0 {
		return b.staticElements(y)
	}
	s := b.cfg.Stretch
	return []fill.Element{{
		Key:    fmt.Sprintf("%s.line%d", b.cfg.Name, i),
		Text:   b.lines[i-1],
		X:      s.X,
		Y:      y,
		Width:  s.Width,
		Height: s.LineHeight,
	}}
}

func (b *Band) staticElements(y int) []fill.Element {
	out := make([]fill.Element, 0, len(b.cfg.Elements))
	for i, e := range b.cfg.Elements {
		if e.PrintWhenGroupChanges != "" && !b.groups[e.PrintWhenGroupChanges] {
			continue
		}
		if e.FirstOnPage && !b.fresh {
			continue
		}
		key := elementKey(b.cfg.Name, i, e)
		text := e.Text
		if i < len(b.texts) {
			text = b.texts[i]
		}
		out = append(out, fill.Element{Key: key, Text: text, X: e.X, Y: y + e.Y, Width: e.Width, Height: e.Height})
	}
	return out
}

// DeferredKeys returns the keys of the elements evaluated once the report is
// filled.
func (b *Band) DeferredKeys() []string {
	var out []string
	for i, e := range b.cfg.Elements {
		if e.EvalTime == EvalReport {
			out = append(out, elementKey(b.cfg.Name, i, e))
		}
	}
	return out
}

func elementKey(band string, i int, e Static) string {
	if e.Key != "" {
		return e.Key
	}
	return fmt.Sprintf("%s.%d", band, i)
}

func (b *Band) consumeFlags() {
	b.fresh = false
	clear(b.groups)
}

var (
	_ fill.SplittableBand  = (*Band)(nil)
	_ fill.Conditional     = (*Band)(nil)
	_ fill.PageColumnAware = (*Band)(nil)
	_ fill.GroupAware      = (*Band)(nil)
)
