package fill

// fillDetail fills one detail row. Rows go side by side across the columns
// and wrap below the tallest cell of the previous row once the last column
// has been used.
func (f *Filler) fillDetail() error {
	detail := f.report.Detail
	if len(detail) > 0 {
		f.logger.Debug("fill detail", "column", f.cur.columnIndex, "offsetY", f.cur.offsetY)
	}

	for _, b := range detail {
		if hasPrintWhen(b) {
			if err := collab(f.calc.EstimateVariables(), "estimate variables"); err != nil {
				return err
			}
			break
		}
	}

	// Only a row that would start a new line needs room checked up front;
	// the others go beside the previous row.
	for _, b := range detail {
		ok, err := printWhen(b, EvalEstimated)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		err = f.breakWhile(b.Name(), func() bool {
			return (f.cur.columnIndex == f.geo.ColumnCount-1 || f.cur.newGroup) &&
				b.Height() > f.columnFooterOffsetY-f.cur.offsetY
		}, f.detailPrevEvaluation(), EvalDefault)
		if err != nil {
			return err
		}
		break
	}

	if err := collab(f.hooks.BeforeDetailEval(), "before detail eval"); err != nil {
		return err
	}
	if err := collab(f.calc.CalculateVariables(), "calculate variables"); err != nil {
		return err
	}
	if err := collab(f.hooks.AfterDetailEval(), "after detail eval"); err != nil {
		return err
	}

	f.positionDetailRow()

	for _, b := range detail {
		ok, err := printWhen(b, EvalDefault)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		attempts := max(f.reattempts(), 1)
		for i := 0; b.Height() > f.columnFooterOffsetY-f.cur.offsetY; i++ {
			if i == attempts {
				return overflowLoop("%s does not fit on a new page", b.Name())
			}
			if err := f.fillPageBreak(false, f.detailPrevEvaluation(), EvalDefault, true); err != nil {
				return err
			}
			f.det.currentY = f.cur.offsetY
		}

		if sb, ok := b.(SplittableBand); ok && sb.SplitPrevented() {
			err = f.fillUnsplitDetail(sb)
		} else {
			err = f.fillFixedBand(b, EvalDefault, false)
		}
		if err != nil {
			return err
		}
		f.cur.firstPageBand = false
		f.cur.firstColumnBand = false
	}

	f.det.maxY = max(f.det.maxY, f.cur.offsetY)
	f.cur.offsetY = f.det.maxY
	f.det.lastX = f.cur.offsetX
	f.det.lastY = f.cur.offsetY

	f.cur.newPage = false
	f.cur.newColumn = false
	f.cur.newGroup = false
	return nil
}

// fillUnsplitDetail fills a detail band that may not split. Content
// overflowing the rest of the column is moved to the next page and refilled
// there. Content starting at the top of a column has nowhere better to go, so
// it continues over the following pages.
func (f *Filler) fillUnsplitDetail(b SplittableBand) error {
	if err := evaluate(b, EvalDefault); err != nil {
		return err
	}
	frag, err := b.Fill(f.columnFooterOffsetY - f.cur.offsetY)
	if err != nil {
		return bandErr(b, err)
	}

	if b.WillOverflow() && f.cur.offsetY > f.cur.columnTopY {
		if err := f.fillPageBreak(false, f.detailPrevEvaluation(), EvalDefault, true); err != nil {
			return err
		}
		f.det.currentY = f.cur.offsetY
		if frag, err = b.Refill(f.columnFooterOffsetY - f.cur.offsetY); err != nil {
			return bandErr(b, err)
		}
	}
	f.placeAdvance(b, frag)

	for b.WillOverflow() {
		if err := f.fillPageBreak(false, EvalDefault, EvalDefault, true); err != nil {
			return err
		}
		f.det.currentY = f.cur.offsetY
		if frag, err = b.Fill(f.columnFooterOffsetY - f.cur.offsetY); err != nil {
			return bandErr(b, err)
		}
		if stalled(b, frag) {
			return overflowLoop("%s makes no progress on a new page", b.Name())
		}
		f.placeAdvance(b, frag)
	}
	return f.resolveBand(b, EvalDefault)
}

// positionDetailRow moves the cursor to the cell of the next row. A cursor
// still where the previous row left it continues that line in the next
// column, or starts a new line after the last one.
func (f *Filler) positionDetailRow() {
	if f.cur.offsetX != f.det.lastX || f.cur.offsetY != f.det.lastY {
		f.setOffsetX()
		f.det.currentY = f.cur.offsetY
		return
	}

	if f.cur.columnIndex == f.geo.ColumnCount-1 {
		f.cur.columnIndex = 0
		f.setOffsetX()
		f.setColumnNumberVariable()
		f.det.maxY = 0
		f.det.currentY = f.cur.offsetY
		return
	}

	f.cur.columnIndex++
	f.setOffsetX()
	f.cur.offsetY = f.det.currentY
	f.setColumnNumberVariable()
}

// detailPrevEvaluation is how the page left by a detail break is closed: a
// row opening a new group belongs with the current record, any other with
// the previous one.
func (f *Filler) detailPrevEvaluation() Evaluation {
	if f.cur.newGroup {
		return EvalDefault
	}
	return EvalOld
}
