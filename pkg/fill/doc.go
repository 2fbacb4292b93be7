// Package fill paginates a banded report template against a stream of
// records.
//
// # Overview
//
// A [Report] is a set of sections ("bands"): title, page and column headers,
// group headers and footers, detail rows, column and page footers, a summary
// and a few special sections. A [Filler] walks the records of a
// [DataSource] once and decides, for every band, where it goes: whether it
// fits in the space left above the column footers, whether it has to split
// and continue on the next page, or whether it has to move to the next page
// whole.
//
// Detail rows are laid out horizontally: each row goes into the next column
// at the same vertical offset as the previous one, and a new line starts
// below the tallest cell once the last column is used.
//
// # Basic Usage
//
// Build a report, create a filler and fill it. Without a sink the pages go
// into a [Document]:
//
//	f, err := fill.New(report, fill.WithCalculator(calc))
//	if err != nil {
//		return err
//	}
//	if err := f.Fill(ctx, records); err != nil {
//		return err
//	}
//	doc := f.Sink().(*fill.Document)
//
// Bands are supplied by the caller through the [Band] and [SplittableBand]
// interfaces; package band has a reference implementation. Variables,
// group changes and lifecycle callbacks come from a [Calculator] and
// [Hooks], and elements whose value is only known later are settled by a
// [Resolver].
//
// # Groups
//
// Groups are nested runs of records sharing a key, outermost first. When a
// key changes, footers are closed from the innermost changed group outwards
// and headers reopened from the outermost inwards. A group may start a new
// page or column, reset the page number, reprint its header on every page
// and keep its content together: content of a kept group that would cross a
// page break is moved to the next page as a whole, below the reprinted
// headers of the enclosing groups.
//
// Group footers are positioned by [FooterPosition]: printed in place, stacked
// or collated at the bottom of the column, or forced there immediately.
//
// # Errors
//
// Layouts that can never be satisfied fail instead of creating pages
// forever. A section that cannot fit on a fresh page returns an error coded
// PAGE_OVERFLOW_LOOP and kept content that does not fit below the reprinted
// headers returns KEEP_TOGETHER_OVERFLOW. Errors of collaborators are wrapped
// as COLLABORATOR_FAILED unless they carry a code already.
//
// # Concurrency
//
// A Filler runs one fill pass at a time. Every pass starts from a clean
// state, so filling the same data twice produces the same pages. Bands and
// collaborators are owned by the filler for the duration of a pass.
package fill
