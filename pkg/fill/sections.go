package fill

// fillTitle fills the title on the first page, moving on to further pages
// while it overflows.
func (f *Filler) fillTitle() error {
	t := f.report.Title
	if t == nil {
		return nil
	}
	f.logger.Debug("fill title", "offsetY", f.cur.offsetY)
	return f.fillStandalone(t, f.report.TitleNewPage)
}

// fillNoData fills the section printed instead of everything else when the
// data source is empty.
func (f *Filler) fillNoData() error {
	nd := f.report.NoData
	if nd == nil {
		return nil
	}
	f.logger.Debug("fill no data", "offsetY", f.cur.offsetY)
	return f.fillStandalone(nd, false)
}

// fillStandalone fills a band that owns whole pages and is bounded by the
// page bottom rather than the column footer.
func (f *Filler) fillStandalone(b SplittableBand, newPageAfter bool) error {
	ok, err := printWhen(b, EvalDefault)
	if err != nil || !ok {
		return err
	}

	for b.BreakHeight() > f.pageBottom()-f.cur.offsetY {
		if f.cur.offsetY <= f.geo.TopMargin {
			return overflowLoop("%s needs %d points but a page holds %d", b.Name(), b.BreakHeight(), f.pageBottom()-f.geo.TopMargin)
		}
		if err := f.addPage(false); err != nil {
			return err
		}
	}

	if err := evaluate(b, EvalDefault); err != nil {
		return err
	}
	frag, err := b.Fill(f.pageBottom() - f.cur.offsetY)
	if err != nil {
		return bandErr(b, err)
	}

	if b.WillOverflow() && b.SplitPrevented() && f.subreport {
		if err := f.advancePage(EvalDefault, false); err != nil {
			return err
		}
		if frag, err = b.Refill(f.pageBottom() - f.cur.offsetY); err != nil {
			return bandErr(b, err)
		}
	}
	f.placeAdvance(b, frag)

	for b.WillOverflow() {
		if err := f.advancePage(EvalDefault, false); err != nil {
			return err
		}
		if frag, err = b.Fill(f.pageBottom() - f.cur.offsetY); err != nil {
			return bandErr(b, err)
		}
		if stalled(b, frag) {
			return overflowLoop("%s makes no progress on a new page", b.Name())
		}
		f.placeAdvance(b, frag)
	}

	if err := f.resolveBand(b, EvalDefault); err != nil {
		return err
	}
	if newPageAfter {
		return f.advancePage(EvalDefault, false)
	}
	return nil
}

// fillPageHeader fills the page header at the top of a page. The header is
// retried on fresh pages at most once per column; a header that never fits
// is fatal.
func (f *Filler) fillPageHeader(ev Evaluation) error {
	f.setNewPageColumnInBands()

	ph := f.report.PageHeader
	ok, err := printWhen(ph, EvalDefault)
	if err != nil {
		return err
	}
	if ok {
		f.logger.Debug("fill page header", "offsetY", f.cur.offsetY)

		reattempts := f.reattempts()
		filled, err := f.fillBandNoOverflow(ph, ev)
		if err != nil {
			return err
		}
		for i := 0; !filled && i < reattempts; i++ {
			if err := f.advancePage(ev, false); err != nil {
				return err
			}
			if filled, err = f.fillBandNoOverflow(ph, ev); err != nil {
				return err
			}
		}
		if !filled {
			return overflowLoop("page header %s overflow causing infinite page creation", ph.Name())
		}
	}

	f.cur.columnHeaderOffsetY = f.cur.offsetY
	f.cur.newPage = true
	f.cur.firstPageBand = true
	return nil
}

// fillColumnHeaders fills one column header per column, all starting at the
// offset reached by the page header.
func (f *Filler) fillColumnHeaders(ev Evaluation) error {
	f.setNewPageColumnInBands()

	ch := f.report.ColumnHeader
	for f.cur.columnIndex = 0; f.cur.columnIndex < f.geo.ColumnCount; f.cur.columnIndex++ {
		f.setColumnNumberVariable()

		ok, err := printWhen(ch, EvalDefault)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		f.logger.Debug("fill column header", "column", f.cur.columnIndex, "offsetY", f.cur.offsetY)

		reattempts := f.reattempts()
		fits := ch.Height() <= f.columnFooterOffsetY-f.cur.offsetY
		for i := 0; !fits && i < reattempts; i++ {
			if err := f.fillPageFooter(ev); err != nil {
				return err
			}
			if err := f.advancePage(ev, false); err != nil {
				return err
			}
			if err := f.fillPageHeader(ev); err != nil {
				return err
			}
			fits = ch.Height() <= f.columnFooterOffsetY-f.cur.offsetY
		}
		if !fits {
			return overflowLoop("column header %s overflow causing infinite page creation", ch.Name())
		}

		f.setOffsetX()
		f.cur.offsetY = f.cur.columnHeaderOffsetY
		if err := f.fillFixedBand(ch, ev, false); err != nil {
			return err
		}
	}

	f.setFirstColumn()
	f.cur.columnTopY = f.cur.offsetY
	f.cur.newColumn = true
	f.cur.firstColumnBand = true
	return nil
}

// fillColumnFooters fills one column footer per column at the column footer
// boundary, or right below the content when footers float. A pending
// positioned group footer range is moved down to the boundary first.
func (f *Filler) fillColumnFooters(ev Evaluation) error {
	if f.subreport && !f.runToBottom {
		f.columnFooterOffsetY = f.cur.offsetY
	}

	y := f.columnFooterOffsetY
	if f.report.FloatColumnFooter || f.report.IgnorePagination {
		y = f.cur.offsetY
	}

	if f.footerRange != nil {
		f.footerRange.rng.MoveContentTo(f.columnFooterOffsetY)
		f.footerRange = nil
	}

	cf := f.report.ColumnFooter
	for f.cur.columnIndex = 0; f.cur.columnIndex < f.geo.ColumnCount; f.cur.columnIndex++ {
		f.setColumnNumberVariable()
		f.setOffsetX()
		f.cur.offsetY = y

		ok, err := printWhen(cf, ev)
		if err != nil {
			return err
		}
		if ok {
			f.logger.Debug("fill column footer", "column", f.cur.columnIndex, "offsetY", f.cur.offsetY)
			if err := f.fillFixedBand(cf, ev, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// fillPageFooter fills the page footer, or the last page footer once the
// summary has switched to it, at the bottom of the page.
func (f *Filler) fillPageFooter(ev Evaluation) error {
	pf := f.currentPageFooter()

	f.cur.offsetX = f.geo.LeftMargin
	if (!f.subreport || f.runToBottom) && !f.report.IgnorePagination {
		f.cur.offsetY = f.pageHeight - heightOf(pf) - f.geo.BottomMargin
	}

	ok, err := printWhen(pf, ev)
	if err != nil || !ok {
		return err
	}
	f.logger.Debug("fill page footer", "band", pf.Name(), "offsetY", f.cur.offsetY)
	return f.fillFixedBand(pf, ev, true)
}

// fillBackground fills the background on the current page without moving
// the cursor.
func (f *Filler) fillBackground() error {
	bg := f.report.Background
	if bg == nil || bg.Height() > f.pageBottom()-f.cur.offsetY {
		return nil
	}
	ok, err := printWhen(bg, EvalDefault)
	if err != nil || !ok {
		return err
	}
	if err := evaluate(bg, EvalDefault); err != nil {
		return err
	}
	frag, err := bg.Fill(f.pageBottom() - f.cur.offsetY)
	if err != nil {
		return bandErr(bg, err)
	}
	f.place(bg, frag)
	return nil
}
