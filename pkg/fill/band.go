package fill

// Evaluation selects which values expressions see while a band is evaluated.
type Evaluation int

const (
	// EvalDefault evaluates against the current record.
	EvalDefault Evaluation = iota
	// EvalOld evaluates against the previous record. Used for content that
	// closes a scope the current record has already left (group footers,
	// page footers of the page being left).
	EvalOld
	// EvalEstimated evaluates against estimated variable values, before the
	// current record's variables are calculated.
	EvalEstimated
)

// String returns the mode name used in logs.
func (e Evaluation) String() string {
	switch e {
	case EvalOld:
		return "old"
	case EvalEstimated:
		return "estimated"
	default:
		return "default"
	}
}

// Element is one piece of positioned content. Inside a [Fragment] the
// coordinates are relative to the fragment origin; once placed on a [Page]
// they are absolute.
type Element struct {
	Key    string `json:"key"`
	Band   string `json:"band,omitempty"`
	Text   string `json:"text,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Fragment is the content a band produced for one fill call.
type Fragment struct {
	Height   int
	Elements []Element
}

// Band is a template section filled at its own height, never split across
// pages: column headers and footers, page footers and detail rows.
type Band interface {
	Name() string

	// Height is the declared height of the band.
	Height() int

	// EvaluatePrintWhen evaluates the print condition with the given values
	// and reports whether the band prints.
	EvaluatePrintWhen(ev Evaluation) (bool, error)

	// Evaluate evaluates the band's expressions and resets its fill state.
	Evaluate(ev Evaluation) error

	// FillFixed produces the band's content. The fragment may be shorter
	// than the declared height when the band shrinks.
	FillFixed() (Fragment, error)
}

// SplittableBand is a section that can be filled into a bounded height and
// continued on the next page: title, page header, group headers and
// footers, summary, background and the no-data section.
type SplittableBand interface {
	Band

	// BreakHeight is the space the band needs before it may start on the
	// current page instead of moving to the next one.
	BreakHeight() int

	// SplitPrevented reports whether the band must move to a new page whole
	// rather than split.
	SplitPrevented() bool

	// Fill produces as much content as fits into available, continuing
	// after a previous overflowing fill.
	Fill(available int) (Fragment, error)

	// Refill fills the content of the last Fill call again, typically on a
	// new page after the first attempt was prevented from splitting.
	Refill(available int) (Fragment, error)

	// WillOverflow reports whether the last fill left content behind.
	WillOverflow() bool

	// Rewind discards the effects of the last fill.
	Rewind() error
}

// PageColumnAware bands are told whether they are filled on a fresh page or column.
type PageColumnAware interface {
	SetNewPageColumn(fresh bool)
}

// GroupAware bands are told whether a group has just started.
type GroupAware interface {
	SetNewGroup(group string, started bool)
}

// Conditional bands report whether they carry a print condition at all. A
// detail section without conditions skips variable estimation.
type Conditional interface {
	HasPrintWhen() bool
}

func heightOf(b Band) int {
	if b == nil {
		return 0
	}
	return b.Height()
}

func breakHeightOf(b SplittableBand) int {
	if b == nil {
		return 0
	}
	return b.BreakHeight()
}

func hasPrintWhen(b Band) bool {
	if c, ok := b.(Conditional); ok {
		return c.HasPrintWhen()
	}
	return true
}
