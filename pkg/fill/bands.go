package fill

import (
	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// place copies a fragment onto the current page at the cursor.
func (f *Filler) place(b Band, frag Fragment) {
	name := b.Name()
	for _, e := range frag.Elements {
		e.X += f.cur.offsetX
		e.Y += f.cur.offsetY
		if e.Band == "" {
			e.Band = name
		}
		f.page.add(e)
	}
}

// placeAdvance places frag and moves the cursor below it.
func (f *Filler) placeAdvance(b Band, frag Fragment) {
	f.place(b, frag)
	f.cur.offsetY += frag.Height
}

// fillBandNoOverflow fills b into the space above the column footer if it
// fits without overflowing, and reports whether it did. A band that would
// overflow is rewound and nothing is placed.
func (f *Filler) fillBandNoOverflow(b SplittableBand, ev Evaluation) (bool, error) {
	available := f.columnFooterOffsetY - f.cur.offsetY
	if available < b.Height() {
		return false, nil
	}
	if err := evaluate(b, ev); err != nil {
		return false, err
	}
	frag, err := b.Fill(available)
	if err != nil {
		return false, bandErr(b, err)
	}
	if b.WillOverflow() {
		return false, bandErr(b, b.Rewind())
	}
	f.placeAdvance(b, frag)
	return true, f.resolveBand(b, ev)
}

// fillFixedBand fills a band at its own height. Unless allowShrink is set
// the cursor advances by the declared height, keeping repeated fixed bands
// aligned from page to page.
func (f *Filler) fillFixedBand(b Band, ev Evaluation, allowShrink bool) error {
	if err := evaluate(b, ev); err != nil {
		return err
	}
	frag, err := b.FillFixed()
	if err != nil {
		return bandErr(b, err)
	}
	f.place(b, frag)
	if allowShrink {
		f.cur.offsetY += frag.Height
	} else {
		f.cur.offsetY += b.Height()
	}
	return f.resolveBand(b, ev)
}

// fillColumnBand fills a group band into the remaining column space,
// breaking pages for as long as the band overflows. A band that may not split,
// or that overflows while a group keeps its content together, is moved to
// the next page whole. The returned range spans the content placed on the
// first page.
func (f *Filler) fillColumnBand(b SplittableBand, ev Evaluation) (*ElementRange, error) {
	if err := evaluate(b, ev); err != nil {
		return nil, err
	}
	frag, err := b.Fill(f.columnFooterOffsetY - f.cur.offsetY)
	if err != nil {
		return nil, bandErr(b, err)
	}

	if b.WillOverflow() && (b.SplitPrevented() || f.keepingTogether()) {
		if err := f.fillPageBreak(false, ev, ev, true); err != nil {
			return nil, err
		}
		if frag, err = b.Refill(f.columnFooterOffsetY - f.cur.offsetY); err != nil {
			return nil, bandErr(b, err)
		}
	}

	rng := newElementRange(f.page, f.cur.columnIndex, f.cur.offsetY)
	f.placeAdvance(b, frag)
	rng.Expand(f.cur.offsetY)

	for b.WillOverflow() {
		if err := f.fillPageBreak(false, ev, ev, true); err != nil {
			return nil, err
		}
		if frag, err = b.Fill(f.columnFooterOffsetY - f.cur.offsetY); err != nil {
			return nil, bandErr(b, err)
		}
		if stalled(b, frag) {
			return nil, overflowLoop("%s makes no progress on a new page", b.Name())
		}
		f.placeAdvance(b, frag)
	}

	return rng, f.resolveBand(b, ev)
}

// stalled reports whether a fill on a fresh page produced nothing while the
// band still overflows.
func stalled(b SplittableBand, frag Fragment) bool {
	return frag.Height == 0 && len(frag.Elements) == 0 && b.WillOverflow()
}

// keepingTogether reports whether any group currently holds its content together.
func (f *Filler) keepingTogether() bool {
	for _, g := range f.groups {
		if g.keepTogether != nil {
			return true
		}
	}
	return false
}

func (f *Filler) resolveBand(b Band, ev Evaluation) error {
	return collab(f.resolver.ResolveBand(b, ev), "resolve band elements")
}

func evaluate(b Band, ev Evaluation) error {
	return bandErr(b, b.Evaluate(ev))
}

func printWhen(b Band, ev Evaluation) (bool, error) {
	if b == nil {
		return false, nil
	}
	ok, err := b.EvaluatePrintWhen(ev)
	return ok, bandErr(b, err)
}

func bandErr(b Band, err error) error {
	if err == nil {
		return nil
	}
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeCollaborator, err, "band %s", b.Name())
}
