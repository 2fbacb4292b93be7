package fill

// fillGroupHeaders fills the headers of changed groups, outermost first.
// With all set every group header is filled.
func (f *Filler) fillGroupHeaders(all bool) error {
	for _, g := range f.groups {
		if all || g.changed {
			if err := f.fillGroupHeader(g); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Filler) fillGroupHeader(g *Group) error {
	f.logger.Debug("fill group header", "group", g.Name, "offsetY", f.cur.offsetY)

	// The page being left is closed with the previous record's values when
	// the group change started at this group.
	evalPrevPage := EvalDefault
	if g.topLevelChange {
		evalPrevPage = EvalOld
	}

	if ((g.StartNewPage || g.ResetPageNumber) && !f.cur.newPage) || (g.StartNewColumn && !f.cur.newColumn) {
		if err := f.fillPageBreak(g.ResetPageNumber, evalPrevPage, EvalDefault, true); err != nil {
			return err
		}
	}

	for i, hb := range g.Header {
		ok, err := printWhen(hb, EvalDefault)
		if err != nil {
			return err
		}
		if ok {
			err := f.breakWhile(hb.Name(), func() bool {
				space := f.columnFooterOffsetY - f.cur.offsetY
				return hb.BreakHeight() > space || g.MinHeightToStartNewPage > space
			}, evalPrevPage, EvalDefault)
			if err != nil {
				return err
			}
		}

		if i == 0 {
			f.setNewGroupInBands(g)
			g.footerPrinted = false
		}

		// An inner group's content already moves with an outer group held
		// together, so only the outermost one tracks a range.
		var rng *ElementRange
		if g.KeepTogether {
			rng = g.keepTogether
			if rng == nil && !f.cur.newColumn && !f.keepingTogether() {
				rng = newElementRange(f.page, f.cur.columnIndex, f.cur.offsetY)
				g.keepTogether = rng
			}
		}

		if ok {
			f.setFirstColumn()
			placed, err := f.fillColumnBand(hb, EvalDefault)
			if err != nil {
				return err
			}
			merge(rng, placed)
			f.cur.firstPageBand = false
			f.cur.firstColumnBand = true
		}
	}

	g.headerPrinted = true
	f.cur.newGroup = true
	return nil
}

// fillGroupHeadersReprint reprints, on a new page, the headers of groups
// that ask for it. It stops at the first group holding its content
// together: that group's header is relocated with its content instead.
func (f *Filler) fillGroupHeadersReprint(ev Evaluation) error {
	for _, g := range f.groups {
		if g.keepTogether != nil {
			break
		}
		if g.ReprintHeaderOnEachPage && (!g.changed || g.headerPrinted) {
			if err := f.fillGroupHeaderReprint(g, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Filler) fillGroupHeaderReprint(g *Group, ev Evaluation) error {
	f.logger.Debug("reprint group header", "group", g.Name, "offsetY", f.cur.offsetY)

	for _, hb := range g.Header {
		ok, err := printWhen(hb, ev)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		f.setFirstColumn()

		err = f.breakWhile(hb.Name(), func() bool {
			space := f.columnFooterOffsetY - f.cur.offsetY
			return hb.BreakHeight() > space || g.MinHeightToStartNewPage > space
		}, ev, ev)
		if err != nil {
			return err
		}

		if _, err := f.fillColumnBand(hb, ev); err != nil {
			return err
		}
		f.cur.firstPageBand = false
		f.cur.firstColumnBand = true
	}
	return nil
}

// fillGroupFooters fills the footers of changed groups, innermost first,
// and ends their keep-together spans. Between records the pending
// positioned footers are then moved to the bottom of the column.
func (f *Filler) fillGroupFooters(all bool) error {
	if len(f.groups) == 0 {
		return nil
	}

	ev := EvalOld
	if all {
		ev = EvalDefault
	}

	for i := len(f.groups) - 1; i >= 0; i-- {
		g := f.groups[i]
		if all || g.changed {
			if err := f.fillGroupFooter(g, ev); err != nil {
				return err
			}
			g.keepTogether = nil
		}
	}

	if !all && f.footerRange != nil {
		f.footerRange.rng.MoveContentTo(f.columnFooterOffsetY)
		f.footerRange = nil
		f.cur.offsetY = f.columnFooterOffsetY
	}
	return nil
}

func (f *Filler) fillGroupFooter(g *Group, ev Evaluation) error {
	f.logger.Debug("fill group footer", "group", g.Name, "offsetY", f.cur.offsetY)

	for _, fb := range g.Footer {
		ok, err := printWhen(fb, ev)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		f.setFirstColumn()

		if fb.BreakHeight() > f.columnFooterOffsetY-f.cur.offsetY {
			if err := f.fillPageBreak(false, ev, ev, true); err != nil {
				return err
			}
		}

		placed, err := f.fillColumnBand(fb, ev)
		if err != nil {
			return err
		}
		f.footerRange = combineFooterRange(f.footerRange, g.FooterPosition, placed)

		f.cur.firstPageBand = false
		f.cur.firstColumnBand = true
	}

	if f.footerRange != nil && f.footerRange.policy == FooterForceAtBottom {
		f.footerRange.rng.MoveContentTo(f.columnFooterOffsetY)
		f.footerRange = nil
		f.cur.offsetY = f.columnFooterOffsetY
	}

	f.cur.newPage = false
	f.cur.newColumn = false

	g.headerPrinted = false
	g.footerPrinted = true
	return nil
}
