package fill

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// unboundedPageHeight is the page height used while pagination is ignored.
const unboundedPageHeight = math.MaxInt32 / 2

// Option configures a [Filler].
type Option func(*Filler)

// WithCalculator sets the variable calculator. Defaults to [NoopCalculator].
func WithCalculator(c Calculator) Option { return func(f *Filler) { f.calc = c } }

// WithHooks sets the lifecycle hooks. Defaults to [NoopHooks].
func WithHooks(h Hooks) Option { return func(f *Filler) { f.hooks = h } }

// WithResolver sets the bound-element resolver. Defaults to [NoopResolver].
func WithResolver(r Resolver) Option { return func(f *Filler) { f.resolver = r } }

// WithSink sets the page sink. Defaults to a fresh [Document].
func WithSink(s Sink) Option { return func(f *Filler) { f.sink = s } }

// WithLogger sets the logger used for debug tracing of the fill pass.
func WithLogger(l *log.Logger) Option { return func(f *Filler) { f.logger = l } }

// WithID sets the filler id that prefixes log lines. Defaults to a random UUID.
func WithID(id string) Option { return func(f *Filler) { f.id = id } }

// WithSubreport marks the report as filled inside another report. Unless
// runToBottom is set, the column footer follows the content instead of
// sitting at the bottom of the page.
func WithSubreport(runToBottom bool) Option {
	return func(f *Filler) { f.subreport = true; f.runToBottom = runToBottom }
}

// WithMasterColumnCount sets the column count of the master report, which
// bounds the header reattempts of a subreport.
func WithMasterColumnCount(n int) Option { return func(f *Filler) { f.masterColumns = n } }

// breakState is the page-break orchestrator state.
type breakState int

const (
	stateIdle breakState = iota
	stateBreaking
)

// cursor is the position and transient flags of a fill pass.
type cursor struct {
	offsetX     int
	offsetY     int
	columnIndex int

	newPage         bool
	newColumn       bool
	newGroup        bool
	firstPageBand   bool
	firstColumnBand bool
	lastPageFooter  bool

	columnHeaderOffsetY int
	// columnTopY is where content starts below the column headers.
	columnTopY int
}

// detailCursor remembers where the previous detail row went so that the
// next one can be placed beside it.
type detailCursor struct {
	lastX    int
	lastY    int
	currentY int
	maxY     int
}

func (d *detailCursor) reset() {
	d.lastX, d.lastY, d.maxY = -1, -1, 0
}

// Filler paginates a [Report] against a data source, filling detail rows
// across columns before moving down the page.
type Filler struct {
	id     string
	report *Report
	geo    Geometry
	groups []*Group

	calc     Calculator
	hooks    Hooks
	resolver Resolver
	sink     Sink
	logger   *log.Logger

	subreport     bool
	runToBottom   bool
	masterColumns int

	mu sync.Mutex

	pageHeight                  int
	columnFooterOffsetY         int
	lastPageColumnFooterOffsetY int

	cur         cursor
	det         detailCursor
	state       breakState
	footerRange *footerRange
	page        *Page
	pageCount   int
	pageNumber  int
}

// New creates a filler for report.
func New(report *Report, opts ...Option) (*Filler, error) {
	if report == nil {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "report is nil")
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	f := &Filler{
		report: report,
		geo:    report.Geometry,
		groups: report.Groups,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.id == "" {
		f.id = uuid.NewString()
	}
	if f.calc == nil {
		f.calc = NoopCalculator{}
	}
	if f.hooks == nil {
		f.hooks = NoopHooks{}
	}
	if f.resolver == nil {
		f.resolver = NoopResolver{}
	}
	if f.sink == nil {
		f.sink = NewDocument(report.Name)
	}
	if f.logger == nil {
		f.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	f.logger = f.logger.With("filler", f.id)
	if f.masterColumns <= 0 {
		f.masterColumns = f.geo.ColumnCount
	}
	return f, nil
}

// ID returns the filler id.
func (f *Filler) ID() string { return f.id }

// Sink returns the sink receiving the pages.
func (f *Filler) Sink() Sink { return f.sink }

// PageCount returns the number of pages created by the last fill pass.
func (f *Filler) PageCount() int { return f.pageCount }

// Fill runs one fill pass over ds. Only one pass runs at a time per filler;
// every pass starts from a clean state, so repeated passes over identical
// data produce identical pages.
func (f *Filler) Fill(ctx context.Context, ds DataSource) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reset()
	f.logger.Debug("fill report", "report", f.report.Name)

	f.setLastPageFooter(false)

	ok, err := next(ctx, ds)
	if err != nil {
		return err
	}
	if ok {
		if err := f.fillReportStart(); err != nil {
			return err
		}
		for {
			if ok, err = next(ctx, ds); err != nil {
				return err
			}
			if !ok {
				break
			}
			if err := f.fillReportContent(); err != nil {
				return err
			}
		}
		if err := f.fillReportEnd(); err != nil {
			return err
		}
	} else if err := f.fillNoDataReport(); err != nil {
		return err
	}

	if f.report.IgnorePagination {
		f.sink.SetPageHeight(f.cur.offsetY + f.geo.BottomMargin)
	}
	if f.subreport {
		if err := f.addPageToParent(true); err != nil {
			return err
		}
	}
	f.logger.Debug("fill done", "pages", f.pageCount)
	return nil
}

func next(ctx context.Context, ds DataSource) (bool, error) {
	if ds == nil {
		return false, nil
	}
	ok, err := ds.Next(ctx)
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeCollaborator, err, "advance data source")
	}
	return ok, nil
}

func (f *Filler) reset() {
	f.cur = cursor{}
	f.det.reset()
	f.state = stateIdle
	f.footerRange = nil
	f.page = nil
	f.pageCount = 0
	f.pageNumber = 0
	for _, g := range f.groups {
		g.reset()
	}
	if d, ok := f.sink.(*Document); ok {
		d.Reset()
	}
	height := f.geo.PageHeight
	if f.report.IgnorePagination {
		height = unboundedPageHeight
	}
	f.setPageHeight(height)
}

// setPageHeight recomputes the footer boundaries for a page of height h.
func (f *Filler) setPageHeight(h int) {
	f.pageHeight = h
	f.columnFooterOffsetY = h - f.geo.BottomMargin - heightOf(f.report.PageFooter) - heightOf(f.report.ColumnFooter)
	f.lastPageColumnFooterOffsetY = h - f.geo.BottomMargin - heightOf(f.report.LastPageFooter) - heightOf(f.report.ColumnFooter)
}

func (f *Filler) setLastPageFooter(on bool) {
	f.cur.lastPageFooter = on
	if on {
		f.columnFooterOffsetY = f.lastPageColumnFooterOffsetY
	}
}

func (f *Filler) currentPageFooter() Band {
	if f.cur.lastPageFooter {
		return f.report.LastPageFooter
	}
	return f.report.PageFooter
}

// pageBottom is the lowest y content may reach on a page.
func (f *Filler) pageBottom() int {
	return f.pageHeight - f.geo.BottomMargin
}

// =============================================================================
// Report sequencing
// =============================================================================

func (f *Filler) fillReportStart() error {
	if err := f.initReport(); err != nil {
		return err
	}
	if err := f.openFirstPage(); err != nil {
		return err
	}
	if err := f.fillBackground(); err != nil {
		return err
	}
	if err := f.fillTitle(); err != nil {
		return err
	}
	if err := f.fillPageHeader(EvalDefault); err != nil {
		return err
	}
	if err := f.fillColumnHeaders(EvalDefault); err != nil {
		return err
	}
	if err := f.fillGroupHeaders(true); err != nil {
		return err
	}
	return f.fillDetail()
}

func (f *Filler) fillReportContent() error {
	flags, err := f.calc.EstimateGroupRuptures()
	if err != nil {
		return errs.Wrap(errs.ErrCodeCollaborator, err, "estimate group ruptures")
	}
	applyRuptures(f.groups, flags)

	if err := f.fillGroupFooters(false); err != nil {
		return err
	}
	if err := collab(f.resolver.ResolveGroup(EvalOld, false), "resolve group elements"); err != nil {
		return err
	}
	if err := collab(f.hooks.BeforeGroupInit(), "before group init"); err != nil {
		return err
	}
	if err := collab(f.calc.InitializeVariables(ScopeGroup, ScopeGroup), "initialize group variables"); err != nil {
		return err
	}
	if err := collab(f.hooks.AfterGroupInit(), "after group init"); err != nil {
		return err
	}
	if err := f.fillGroupHeaders(false); err != nil {
		return err
	}
	return f.fillDetail()
}

func (f *Filler) fillReportEnd() error {
	if err := f.fillGroupFooters(true); err != nil {
		return err
	}
	return f.fillSummary()
}

func (f *Filler) fillNoDataReport() error {
	f.logger.Debug("no data", "policy", f.report.WhenNoData)

	switch f.report.WhenNoData {
	case AllSectionsNoDetail:
		if err := f.initReport(); err != nil {
			return err
		}
		if err := f.openFirstPage(); err != nil {
			return err
		}
		steps := []func() error{
			f.fillBackground,
			f.fillTitle,
			func() error { return f.fillPageHeader(EvalDefault) },
			func() error { return f.fillColumnHeaders(EvalDefault) },
			func() error { return f.fillGroupHeaders(true) },
			func() error { return f.fillGroupFooters(true) },
			f.fillSummary,
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
	case BlankPage:
		if err := f.openFirstPage(); err != nil {
			return err
		}
	case NoDataSection:
		if err := f.initReport(); err != nil {
			return err
		}
		if err := f.openFirstPage(); err != nil {
			return err
		}
		if err := f.fillBackground(); err != nil {
			return err
		}
		return f.fillNoData()
	}
	return nil
}

func (f *Filler) initReport() error {
	if err := collab(f.hooks.BeforeReportInit(), "before report init"); err != nil {
		return err
	}
	if err := collab(f.calc.InitializeVariables(ScopeReport, ScopeReport), "initialize report variables"); err != nil {
		return err
	}
	return collab(f.hooks.AfterReportInit(), "after report init")
}

// openFirstPage creates the first page of the report.
func (f *Filler) openFirstPage() error {
	f.pageNumber = 1
	f.calc.SetPageNumber(f.pageNumber)
	if err := f.newPage(); err != nil {
		return err
	}
	f.setFirstColumn()
	f.cur.offsetY = f.geo.TopMargin
	return nil
}

// =============================================================================
// Pages and columns
// =============================================================================

func (f *Filler) newPage() error {
	f.page = &Page{
		Index:  f.pageCount,
		Number: f.pageNumber,
		Width:  f.geo.PageWidth,
		Height: f.pageHeight,
	}
	if f.report.IgnorePagination {
		f.page.Height = 0
	}
	f.pageCount++
	f.logger.Debug("new page", "index", f.page.Index, "number", f.page.Number)
	return collab(f.sink.AddPage(f.page), "add page")
}

// addPage starts a new page after the current one.
func (f *Filler) addPage(resetPageNumber bool) error {
	if f.subreport {
		if err := f.addPageToParent(false); err != nil {
			return err
		}
	}
	if resetPageNumber {
		f.pageNumber = 1
	} else {
		f.pageNumber++
	}
	f.calc.SetPageNumber(f.pageNumber)
	if err := f.newPage(); err != nil {
		return err
	}
	f.setFirstColumn()
	f.cur.offsetY = f.geo.TopMargin
	f.det.reset()
	return f.fillBackground()
}

func (f *Filler) addPageToParent(final bool) error {
	if p, ok := f.sink.(ParentSink); ok {
		return collab(p.AddPageToParent(final), "add page to parent")
	}
	return nil
}

// advancePage closes the scopes of the current page and adds the next one.
func (f *Filler) advancePage(ev Evaluation, finalGroups bool) error {
	if err := f.resolvePageScopes(ev, finalGroups); err != nil {
		return err
	}
	if err := f.initPage(); err != nil {
		return err
	}
	return f.addPage(false)
}

func (f *Filler) resolvePageScopes(ev Evaluation, finalGroups bool) error {
	if err := collab(f.resolver.ResolveGroup(ev, finalGroups), "resolve group elements"); err != nil {
		return err
	}
	if err := collab(f.resolver.ResolveColumn(ev), "resolve column elements"); err != nil {
		return err
	}
	return collab(f.resolver.ResolvePage(ev), "resolve page elements")
}

func (f *Filler) initPage() error {
	if err := collab(f.hooks.BeforePageInit(), "before page init"); err != nil {
		return err
	}
	if err := collab(f.calc.InitializeVariables(ScopePage, ScopePage), "initialize page variables"); err != nil {
		return err
	}
	return collab(f.hooks.AfterPageInit(), "after page init")
}

func (f *Filler) setFirstColumn() {
	f.cur.columnIndex = 0
	f.cur.offsetX = f.geo.LeftMargin
	f.setColumnNumberVariable()
}

func (f *Filler) setOffsetX() {
	f.cur.offsetX = f.geo.ColumnX(f.cur.columnIndex)
}

func (f *Filler) setColumnNumberVariable() {
	f.calc.SetColumnNumber(f.cur.columnIndex + 1)
}

// reattempts is how many new pages a fixed header may try before the fill
// gives up on it.
func (f *Filler) reattempts() int {
	n := f.masterColumns
	if f.state == stateBreaking {
		n--
	}
	return n
}

func (f *Filler) setNewPageColumnInBands() {
	for _, b := range f.report.bands() {
		if a, ok := b.(PageColumnAware); ok {
			a.SetNewPageColumn(true)
		}
	}
}

func (f *Filler) setNewGroupInBands(g *Group) {
	for _, b := range f.report.bands() {
		if a, ok := b.(GroupAware); ok {
			a.SetNewGroup(g.Name, true)
		}
	}
}

// collab wraps an error returned by a collaborator.
func collab(err error, what string) error {
	if err == nil {
		return nil
	}
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeCollaborator, err, "%s", what)
}

func overflowLoop(format string, args ...any) error {
	return errs.New(errs.ErrCodePageOverflowLoop, format, args...)
}
