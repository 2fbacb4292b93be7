package fill

import (
	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// Direction is the order in which columns are laid out across a page.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// String returns "ltr" or "rtl".
func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// Geometry describes the page and column layout of a report. All values are
// in points. It is immutable for the duration of a fill pass; the page height
// seen by the filler may differ when pagination is ignored.
type Geometry struct {
	PageWidth     int
	PageHeight    int
	TopMargin     int
	BottomMargin  int
	LeftMargin    int
	RightMargin   int
	ColumnCount   int
	ColumnWidth   int
	ColumnSpacing int
	Direction     Direction
}

// Validate checks that the geometry describes a usable page.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidGeometry, "page size must be positive, got %dx%d", g.PageWidth, g.PageHeight)
	}
	if g.TopMargin < 0 || g.BottomMargin < 0 || g.LeftMargin < 0 || g.RightMargin < 0 {
		return errs.New(errs.ErrCodeInvalidGeometry, "margins cannot be negative")
	}
	if g.TopMargin+g.BottomMargin >= g.PageHeight {
		return errs.New(errs.ErrCodeInvalidGeometry, "vertical margins leave no room on a %d point page", g.PageHeight)
	}
	if g.ColumnCount < 1 {
		return errs.New(errs.ErrCodeInvalidGeometry, "column count must be at least 1, got %d", g.ColumnCount)
	}
	if g.ColumnWidth <= 0 || g.ColumnSpacing < 0 {
		return errs.New(errs.ErrCodeInvalidGeometry, "invalid column width %d or spacing %d", g.ColumnWidth, g.ColumnSpacing)
	}
	if used := g.LeftMargin + g.RightMargin + g.ColumnsWidth(); used > g.PageWidth {
		return errs.New(errs.ErrCodeInvalidGeometry, "%d columns need %d points but the page is %d wide", g.ColumnCount, used, g.PageWidth)
	}
	return nil
}

// ColumnsWidth is the horizontal space taken by all columns and the gaps between them.
func (g Geometry) ColumnsWidth() int {
	return g.ColumnCount*g.ColumnWidth + (g.ColumnCount-1)*g.ColumnSpacing
}

// ContentWidth is the space between the left and right margins.
func (g Geometry) ContentWidth() int {
	return g.PageWidth - g.LeftMargin - g.RightMargin
}

// ColumnX returns the horizontal origin of column i. Columns advance from the
// left margin for left-to-right reports and from the right margin otherwise.
func (g Geometry) ColumnX(i int) int {
	step := i * (g.ColumnSpacing + g.ColumnWidth)
	if g.Direction == RightToLeft {
		return g.PageWidth - g.RightMargin - g.ColumnWidth - step
	}
	return g.LeftMargin + step
}
