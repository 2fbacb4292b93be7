package fill

import (
	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// fillPageBreak closes the current page and opens the next one: column and
// page footers below, page and column headers on top, then the reprinted
// group headers. Content of the outermost group held together is carried
// over to the new page below the headers.
//
// A break requested while another one is in progress is an error; it means
// a section filled during the break does not fit on a fresh page.
func (f *Filler) fillPageBreak(resetPageNumber bool, prev, next Evaluation, reprintHeaders bool) error {
	if f.state == stateBreaking {
		return overflowLoop("infinite loop creating new page")
	}
	f.logger.Debug("page break", "page", f.page.Index, "offsetY", f.cur.offsetY)

	for _, g := range f.groups {
		if g.keepTogether != nil {
			g.keepTogether.Expand(f.cur.offsetY)
		}
	}

	f.state = stateBreaking
	defer func() { f.state = stateIdle }()

	if err := f.fillColumnFooters(prev); err != nil {
		return err
	}
	if err := f.fillPageFooter(prev); err != nil {
		return err
	}
	if err := f.resolvePageScopes(prev, false); err != nil {
		return err
	}
	if err := f.initPage(); err != nil {
		return err
	}

	var kept *Group
	for _, g := range f.groups {
		if g.keepTogether != nil {
			kept = g
			break
		}
	}
	var moved []Element
	if kept != nil {
		moved = kept.keepTogether.RemoveContent()
	}

	if err := f.addPage(resetPageNumber); err != nil {
		return err
	}
	if err := f.fillPageHeader(next); err != nil {
		return err
	}
	if err := f.fillColumnHeaders(next); err != nil {
		return err
	}

	if reprintHeaders {
		if err := f.fillGroupHeadersReprint(next); err != nil {
			return err
		}
		if kept != nil && kept.keepTogether != nil {
			if h := kept.keepTogether.Height(); f.cur.offsetY+h > f.columnFooterOffsetY {
				return errs.New(errs.ErrCodeKeepTogetherOverflow,
					"group %s: %d points kept together do not fit below the headers of the new page", kept.Name, h)
			}
		}
	}

	f.moveKeepTogether(kept, moved)
	return nil
}

// moveKeepTogether places content removed from the previous page at the
// cursor, preserving relative positions, and ends every keep-together span.
func (f *Filler) moveKeepTogether(kept *Group, moved []Element) {
	if kept == nil || kept.keepTogether == nil {
		return
	}
	rng := kept.keepTogether
	delta := f.cur.offsetY - rng.TopY
	for _, e := range moved {
		e.Y += delta
		f.page.add(e)
	}
	f.cur.offsetY += rng.Height()
	f.logger.Debug("moved kept content", "group", kept.Name, "elements", len(moved), "delta", delta)

	for _, g := range f.groups {
		g.keepTogether = nil
	}
}

// breakWhile breaks pages while cond holds. A condition still holding after
// as many fresh pages as the header reattempts allow can never be met.
func (f *Filler) breakWhile(what string, cond func() bool, prev, next Evaluation) error {
	attempts := max(f.reattempts(), 1)
	for i := 0; cond(); i++ {
		if i == attempts {
			return overflowLoop("%s does not fit on a new page", what)
		}
		if err := f.fillPageBreak(false, prev, next, true); err != nil {
			return err
		}
	}
	return nil
}
