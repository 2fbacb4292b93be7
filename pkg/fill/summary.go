package fill

// fillSummary fills the summary and closes the last page. The strategy
// depends on whether a distinct last page footer exists and on whether the
// summary pages show the ordinary page header and footer.
func (f *Filler) fillSummary() error {
	s := f.report.Summary
	if s != nil {
		f.logger.Debug("fill summary", "offsetY", f.cur.offsetY)
	}
	f.cur.offsetX = f.geo.LeftMargin

	var err error
	switch {
	case f.report.LastPageFooter == nil:
		if !f.report.SummaryNewPage && breakHeightOf(s) <= f.columnFooterOffsetY-f.cur.offsetY {
			err = f.fillSummaryNoLastFooterSamePage()
		} else {
			err = f.fillSummaryNoLastFooterNewPage()
		}
	case f.report.SummaryWithPageHeaderAndFooter:
		err = f.fillSummaryWithLastFooterAndPageBands()
	default:
		err = f.fillSummaryWithLastFooterNoPageBands()
	}
	if err != nil {
		return err
	}

	if err := f.resolvePageScopes(EvalDefault, true); err != nil {
		return err
	}
	if err := collab(f.resolver.ResolveReport(), "resolve report elements"); err != nil {
		return err
	}
	if !f.subreport {
		return collab(f.resolver.ResolveMaster(), "resolve master elements")
	}
	return nil
}

func (f *Filler) fillSummaryNoLastFooterSamePage() error {
	s := f.report.Summary
	withBands := f.report.SummaryWithPageHeaderAndFooter

	ok, err := printWhen(s, EvalDefault)
	if err != nil {
		return err
	}
	if !ok {
		return f.closePage()
	}

	f.consumeFooterRange()
	frag, err := f.fillSummaryBand(f.columnFooterOffsetY - f.cur.offsetY)
	if err != nil {
		return err
	}

	if s.WillOverflow() && s.SplitPrevented() {
		if err := f.closePage(); err != nil {
			return err
		}
		if err := f.nextSummaryPage(true, withBands); err != nil {
			return err
		}
		if frag, err = f.refillSummary(f.summaryRoom(withBands)); err != nil {
			return err
		}
		f.placeAdvance(s, frag)
		return f.fillSummaryOverflow()
	}

	f.placeAdvance(s, frag)
	if err := f.closePage(); err != nil {
		return err
	}
	if !s.WillOverflow() {
		return f.resolveBand(s, EvalDefault)
	}

	if err := f.nextSummaryPage(true, withBands); err != nil {
		return err
	}
	if frag, err = f.continueSummary(f.summaryRoom(withBands)); err != nil {
		return err
	}
	f.placeAdvance(s, frag)
	return f.fillSummaryOverflow()
}

func (f *Filler) fillSummaryNoLastFooterNewPage() error {
	s := f.report.Summary
	withBands := f.report.SummaryWithPageHeaderAndFooter

	if err := f.closePage(); err != nil {
		return err
	}
	ok, err := printWhen(s, EvalDefault)
	if err != nil || !ok {
		return err
	}

	if err := f.nextSummaryPage(true, withBands); err != nil {
		return err
	}
	frag, err := f.fillSummaryBand(f.summaryRoom(withBands))
	if err != nil {
		return err
	}
	if s.WillOverflow() && s.SplitPrevented() && f.subreport {
		if withBands {
			if err := f.fillPageFooter(EvalDefault); err != nil {
				return err
			}
		}
		if err := f.nextSummaryPage(true, withBands); err != nil {
			return err
		}
		if frag, err = f.refillSummary(f.summaryRoom(withBands)); err != nil {
			return err
		}
	}
	f.placeAdvance(s, frag)
	return f.fillSummaryOverflow()
}

func (f *Filler) fillSummaryWithLastFooterAndPageBands() error {
	s := f.report.Summary

	if !f.report.SummaryNewPage && breakHeightOf(s) <= f.columnFooterOffsetY-f.cur.offsetY {
		ok, err := printWhen(s, EvalDefault)
		if err != nil {
			return err
		}
		if !ok {
			f.setLastPageFooter(true)
			return f.closePage()
		}

		f.consumeFooterRange()
		frag, err := f.fillSummaryBand(f.columnFooterOffsetY - f.cur.offsetY)
		if err != nil {
			return err
		}
		if s.WillOverflow() && s.SplitPrevented() {
			if err := f.closePage(); err != nil {
				return err
			}
			if err := f.nextSummaryPage(true, true); err != nil {
				return err
			}
			if frag, err = f.refillSummary(f.summaryRoom(true)); err != nil {
				return err
			}
			f.placeAdvance(s, frag)
		} else {
			f.placeAdvance(s, frag)
			if !s.WillOverflow() && f.cur.offsetY <= f.lastPageColumnFooterOffsetY {
				f.setLastPageFooter(true)
			}
			if err := f.fillColumnFooters(EvalDefault); err != nil {
				return err
			}
		}
		return f.fillSummaryOverflow()
	}

	if f.cur.offsetY <= f.lastPageColumnFooterOffsetY {
		ok, err := printWhen(s, EvalDefault)
		if err != nil {
			return err
		}
		if !ok {
			f.setLastPageFooter(true)
			return f.closePage()
		}

		if err := f.closePage(); err != nil {
			return err
		}
		if err := f.nextSummaryPage(true, true); err != nil {
			return err
		}
		if err := f.fillSummaryOnPageBandsPage(); err != nil {
			return err
		}
		return f.fillSummaryOverflow()
	}

	if err := f.closePage(); err != nil {
		return err
	}
	if err := f.nextSummaryPage(false, true); err != nil {
		return err
	}
	ok, err := printWhen(s, EvalDefault)
	if err != nil {
		return err
	}
	if ok {
		if err := f.fillSummaryOnPageBandsPage(); err != nil {
			return err
		}
	}
	return f.fillSummaryOverflow()
}

// fillSummaryOnPageBandsPage fills the summary on a page that has a page
// header and keeps room for the page footer.
func (f *Filler) fillSummaryOnPageBandsPage() error {
	s := f.report.Summary
	frag, err := f.fillSummaryBand(f.summaryRoom(true))
	if err != nil {
		return err
	}
	if s.WillOverflow() && s.SplitPrevented() && f.subreport {
		if err := f.fillPageFooter(EvalDefault); err != nil {
			return err
		}
		if err := f.nextSummaryPage(true, true); err != nil {
			return err
		}
		if frag, err = f.refillSummary(f.summaryRoom(true)); err != nil {
			return err
		}
	}
	f.placeAdvance(s, frag)
	return nil
}

func (f *Filler) fillSummaryWithLastFooterNoPageBands() error {
	s := f.report.Summary

	if !f.report.SummaryNewPage && breakHeightOf(s) <= f.lastPageColumnFooterOffsetY-f.cur.offsetY {
		f.setLastPageFooter(true)

		ok, err := printWhen(s, EvalDefault)
		if err != nil {
			return err
		}
		if !ok {
			return f.closePage()
		}

		f.consumeFooterRange()
		frag, err := f.fillSummaryBand(f.columnFooterOffsetY - f.cur.offsetY)
		if err != nil {
			return err
		}
		if s.WillOverflow() && s.SplitPrevented() {
			if err := f.closePage(); err != nil {
				return err
			}
			if err := f.nextSummaryPage(true, false); err != nil {
				return err
			}
			if frag, err = f.refillSummary(f.summaryRoom(false)); err != nil {
				return err
			}
			f.placeAdvance(s, frag)
		} else {
			f.placeAdvance(s, frag)
			if err := f.closePage(); err != nil {
				return err
			}
		}
		return f.fillSummaryOverflow()
	}

	if !f.report.SummaryNewPage && breakHeightOf(s) <= f.columnFooterOffsetY-f.cur.offsetY {
		ok, err := printWhen(s, EvalDefault)
		if err != nil {
			return err
		}
		if !ok {
			if f.cur.offsetY > f.lastPageColumnFooterOffsetY {
				if err := f.fillPageBreak(false, EvalDefault, EvalDefault, false); err != nil {
					return err
				}
			}
			f.setLastPageFooter(true)
			return f.closePage()
		}

		f.consumeFooterRange()
		frag, err := f.fillSummaryBand(f.columnFooterOffsetY - f.cur.offsetY)
		if err != nil {
			return err
		}
		switch {
		case s.WillOverflow() && s.SplitPrevented() && f.cur.offsetY <= f.lastPageColumnFooterOffsetY:
			f.setLastPageFooter(true)
			if err := f.closePage(); err != nil {
				return err
			}
			if err := f.nextSummaryPage(true, false); err != nil {
				return err
			}
			if frag, err = f.refillSummary(f.summaryRoom(false)); err != nil {
				return err
			}
			f.placeAdvance(s, frag)
		case s.WillOverflow() && s.SplitPrevented():
			if err := f.fillPageBreak(false, EvalDefault, EvalDefault, false); err != nil {
				return err
			}
			f.setLastPageFooter(true)
			if frag, err = f.refillSummary(f.lastPageColumnFooterOffsetY - f.cur.offsetY); err != nil {
				return err
			}
			f.placeAdvance(s, frag)
			if err := f.closePage(); err != nil {
				return err
			}
		default:
			f.placeAdvance(s, frag)
			if err := f.fillPageBreak(false, EvalDefault, EvalDefault, false); err != nil {
				return err
			}
			f.setLastPageFooter(true)
			if s.WillOverflow() {
				if frag, err = f.continueSummary(f.lastPageColumnFooterOffsetY - f.cur.offsetY); err != nil {
					return err
				}
				f.placeAdvance(s, frag)
			}
			if err := f.closePage(); err != nil {
				return err
			}
		}
		return f.fillSummaryOverflow()
	}

	if f.cur.offsetY <= f.lastPageColumnFooterOffsetY {
		f.setLastPageFooter(true)
		if err := f.closePage(); err != nil {
			return err
		}
		ok, err := printWhen(s, EvalDefault)
		if err != nil || !ok {
			return err
		}
		if err := f.nextSummaryPage(true, false); err != nil {
			return err
		}
		if err := f.fillSummaryOnBarePage(); err != nil {
			return err
		}
		return f.fillSummaryOverflow()
	}

	if err := f.closePage(); err != nil {
		return err
	}
	if err := f.nextSummaryPage(false, true); err != nil {
		return err
	}
	f.setLastPageFooter(true)

	if f.report.SummaryNewPage {
		if err := f.fillPageFooter(EvalDefault); err != nil {
			return err
		}
		ok, err := printWhen(s, EvalDefault)
		if err != nil || !ok {
			return err
		}
		if err := f.nextSummaryPage(true, false); err != nil {
			return err
		}
		if err := f.fillSummaryOnBarePage(); err != nil {
			return err
		}
		return f.fillSummaryOverflow()
	}

	ok, err := printWhen(s, EvalDefault)
	if err != nil {
		return err
	}
	if !ok {
		return f.fillPageFooter(EvalDefault)
	}
	frag, err := f.fillSummaryBand(f.columnFooterOffsetY - f.cur.offsetY)
	if err != nil {
		return err
	}
	if s.WillOverflow() && s.SplitPrevented() {
		if err := f.fillPageFooter(EvalDefault); err != nil {
			return err
		}
		if err := f.nextSummaryPage(true, false); err != nil {
			return err
		}
		if frag, err = f.refillSummary(f.summaryRoom(false)); err != nil {
			return err
		}
		f.placeAdvance(s, frag)
	} else {
		f.placeAdvance(s, frag)
		if err := f.fillPageFooter(EvalDefault); err != nil {
			return err
		}
	}
	return f.fillSummaryOverflow()
}

// fillSummaryOnBarePage fills the summary on a page without page bands.
func (f *Filler) fillSummaryOnBarePage() error {
	s := f.report.Summary
	frag, err := f.fillSummaryBand(f.summaryRoom(false))
	if err != nil {
		return err
	}
	if s.WillOverflow() && s.SplitPrevented() && f.subreport {
		if err := f.nextSummaryPage(true, false); err != nil {
			return err
		}
		if frag, err = f.refillSummary(f.summaryRoom(false)); err != nil {
			return err
		}
	}
	f.placeAdvance(s, frag)
	return nil
}

// fillSummaryOverflow continues an overflowing summary on further pages and
// closes the last one.
func (f *Filler) fillSummaryOverflow() error {
	s := f.report.Summary
	withBands := f.report.SummaryWithPageHeaderAndFooter

	for s != nil && s.WillOverflow() {
		if withBands {
			if err := f.fillPageFooter(EvalDefault); err != nil {
				return err
			}
		}
		if err := f.nextSummaryPage(true, withBands); err != nil {
			return err
		}
		frag, err := f.continueSummary(f.summaryRoom(withBands))
		if err != nil {
			return err
		}
		if stalled(s, frag) {
			return overflowLoop("summary %s makes no progress on a new page", s.Name())
		}
		f.placeAdvance(s, frag)
	}
	if s != nil {
		if err := f.resolveBand(s, EvalDefault); err != nil {
			return err
		}
	}

	if !withBands {
		return nil
	}
	if f.cur.offsetY > f.pageBottom()-heightOf(f.report.LastPageFooter) {
		if err := f.fillPageFooter(EvalDefault); err != nil {
			return err
		}
		if err := f.nextSummaryPage(true, true); err != nil {
			return err
		}
	}
	if f.report.LastPageFooter != nil {
		f.setLastPageFooter(true)
	}
	return f.fillPageFooter(EvalDefault)
}

// nextSummaryPage closes the page scopes and adds a page, with the page
// header when withHeader is set.
func (f *Filler) nextSummaryPage(finalGroups, withHeader bool) error {
	if err := f.advancePage(EvalDefault, finalGroups); err != nil {
		return err
	}
	if withHeader {
		return f.fillPageHeader(EvalDefault)
	}
	return nil
}

// summaryRoom is the height the summary may use from the cursor down,
// keeping room for the page footer when the summary pages carry one.
func (f *Filler) summaryRoom(withPageBands bool) int {
	room := f.pageBottom() - f.cur.offsetY
	if withPageBands {
		room -= heightOf(f.report.PageFooter)
	}
	return room
}

func (f *Filler) fillSummaryBand(available int) (Fragment, error) {
	s := f.report.Summary
	if err := evaluate(s, EvalDefault); err != nil {
		return Fragment{}, err
	}
	frag, err := s.Fill(available)
	return frag, bandErr(s, err)
}

// continueSummary fills the rest of an overflowing summary.
func (f *Filler) continueSummary(available int) (Fragment, error) {
	s := f.report.Summary
	frag, err := s.Fill(available)
	return frag, bandErr(s, err)
}

func (f *Filler) refillSummary(available int) (Fragment, error) {
	s := f.report.Summary
	frag, err := s.Refill(available)
	return frag, bandErr(s, err)
}

// closePage fills the column footers and the page footer of the current page.
func (f *Filler) closePage() error {
	if err := f.fillColumnFooters(EvalDefault); err != nil {
		return err
	}
	return f.fillPageFooter(EvalDefault)
}

// consumeFooterRange moves pending positioned group footers to the column
// footer boundary before the summary uses the remaining space.
func (f *Filler) consumeFooterRange() {
	if f.footerRange == nil {
		return
	}
	f.footerRange.rng.MoveContentTo(f.columnFooterOffsetY)
	f.cur.offsetY = f.columnFooterOffsetY
	f.footerRange = nil
}
