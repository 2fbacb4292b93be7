package fill

// ElementRange is a contiguous vertical span of content already placed on a
// page, starting in a given column. It spans all columns of the page.
//
// Only elements placed after the range was opened belong to it, so content
// laid out earlier at absolute positions, such as the page background, stays
// where it is.
type ElementRange struct {
	Page    *Page
	Column  int
	TopY    int
	BottomY int

	// first is the index in Page.Elements of the first element placed
	// after the range was opened.
	first int
}

func newElementRange(p *Page, column, y int) *ElementRange {
	return &ElementRange{Page: p, Column: column, TopY: y, BottomY: y, first: len(p.Elements)}
}

// contains reports whether the i-th element of the page belongs to the range.
func (r *ElementRange) contains(i int) bool {
	return i >= r.first && inSpan(r.Page.Elements[i].Y, r.TopY, r.BottomY)
}

// Expand moves the lower bound of the range to y.
func (r *ElementRange) Expand(y int) {
	r.BottomY = y
}

// Height is the vertical extent of the range.
func (r *ElementRange) Height() int {
	return r.BottomY - r.TopY
}

// MoveContentTo shifts the content of the range down so that its bottom edge
// lands on targetY. Ranges already at or below the target are left alone.
func (r *ElementRange) MoveContentTo(targetY int) {
	delta := targetY - r.BottomY
	if delta <= 0 {
		return
	}
	for i := range r.Page.Elements {
		if r.contains(i) {
			r.Page.Elements[i].Y += delta
		}
	}
	r.TopY += delta
	r.BottomY += delta
}

// RemoveContent detaches the content of the range from its page and returns
// it in placement order.
func (r *ElementRange) RemoveContent() []Element {
	var kept, removed []Element
	for i, e := range r.Page.Elements {
		if r.contains(i) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	r.Page.Elements = kept
	r.first = len(kept)
	return removed
}

// merge folds b into a. A nil a yields b; ranges on the same page and column
// grow a to b's bottom.
func merge(a, b *ElementRange) *ElementRange {
	if a == nil {
		return b
	}
	if b != nil && a.Page == b.Page && a.Column == b.Column {
		a.Expand(b.BottomY)
		a.first = min(a.first, b.first)
	}
	return a
}

// FooterPosition is where trailing group footers land when a group ends
// before the column is full.
type FooterPosition int

const (
	// FooterNormal prints footers right after the group content.
	FooterNormal FooterPosition = iota
	// FooterStackAtBottom stacks the footer, and all footers of enclosing
	// groups, at the bottom of the column.
	FooterStackAtBottom
	// FooterForceAtBottom moves the footer to the bottom of the column as soon
	// as it is filled.
	FooterForceAtBottom
	// FooterCollateAtBottom moves the footer to the bottom together with the
	// footers directly following it, unless a normal footer intervenes.
	FooterCollateAtBottom
)

var footerPositionNames = map[FooterPosition]string{
	FooterNormal:          "normal",
	FooterStackAtBottom:   "stack",
	FooterForceAtBottom:   "force",
	FooterCollateAtBottom: "collate",
}

// String returns the lowercase policy name.
func (p FooterPosition) String() string {
	if n, ok := footerPositionNames[p]; ok {
		return n
	}
	return "unknown"
}

// ParseFooterPosition returns the policy with the given name.
func ParseFooterPosition(s string) (FooterPosition, bool) {
	if s == "" {
		return FooterNormal, true
	}
	for p, n := range footerPositionNames {
		if n == s {
			return p, true
		}
	}
	return FooterNormal, false
}

// footerRange is the pending span of positioned group footers and the
// policy currently governing it.
type footerRange struct {
	rng    *ElementRange
	policy FooterPosition
}

// combineFooterRange folds the range of a freshly filled group footer into
// the pending positioned range.
func combineFooterRange(pending *footerRange, policy FooterPosition, placed *ElementRange) *footerRange {
	if pending == nil {
		if policy == FooterNormal {
			return nil
		}
		return &footerRange{rng: placed, policy: policy}
	}

	switch pending.policy {
	case FooterForceAtBottom:
		pending.rng = merge(pending.rng, placed)
		return pending
	case FooterStackAtBottom:
		pending.rng = merge(pending.rng, placed)
		if policy == FooterForceAtBottom {
			pending.policy = FooterForceAtBottom
		}
		return pending
	default:
		switch policy {
		case FooterNormal:
			return nil
		case FooterStackAtBottom, FooterForceAtBottom:
			pending.policy = policy
		}
		pending.rng = merge(pending.rng, placed)
		return pending
	}
}
