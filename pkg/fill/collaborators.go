package fill

import "context"

// Scope is the lifetime of a variable.
type Scope int

const (
	ScopeReport Scope = iota
	ScopePage
	ScopeColumn
	ScopeGroup
)

// String returns the scope name used in logs.
func (s Scope) String() string {
	switch s {
	case ScopePage:
		return "page"
	case ScopeColumn:
		return "column"
	case ScopeGroup:
		return "group"
	default:
		return "report"
	}
}

// Calculator evaluates report variables and group expressions.
type Calculator interface {
	// InitializeVariables resets variables of scope reset and increments
	// those of scope increment.
	InitializeVariables(reset, increment Scope) error

	// EstimateVariables computes estimated values for the current record.
	EstimateVariables() error

	// CalculateVariables computes the final values for the current record.
	CalculateVariables() error

	// EstimateGroupRuptures reports, outermost first, whether each group's
	// key changed between the previous and the current record.
	EstimateGroupRuptures() ([]bool, error)

	SetPageNumber(n int)
	SetColumnNumber(n int)
}

// Hooks are the lifecycle callbacks of a fill pass, called synchronously
// around each scope's initialization and each detail evaluation.
type Hooks interface {
	BeforeReportInit() error
	AfterReportInit() error
	BeforePageInit() error
	AfterPageInit() error
	BeforeGroupInit() error
	AfterGroupInit() error
	BeforeDetailEval() error
	AfterDetailEval() error
}

// Resolver places elements whose values are only known once a scope ends
// (for example "page X of Y" texts).
type Resolver interface {
	ResolveBand(b Band, ev Evaluation) error
	ResolveGroup(ev Evaluation, final bool) error
	ResolveColumn(ev Evaluation) error
	ResolvePage(ev Evaluation) error
	ResolveReport() error
	ResolveMaster() error
}

// DataSource advances through the records of a report.
type DataSource interface {
	Next(ctx context.Context) (bool, error)
}

// Sink receives the pages of a fill pass. Pages are handed over when they
// are created and filled in place afterwards.
type Sink interface {
	AddPage(p *Page) error
	SetPageHeight(h int)
}

// ParentSink is implemented by sinks of subreports, which announce every
// completed page to the report containing them.
type ParentSink interface {
	AddPageToParent(final bool) error
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHooks implements Hooks with callbacks that do nothing.
type NoopHooks struct{}

func (NoopHooks) BeforeReportInit() error { return nil }
func (NoopHooks) AfterReportInit() error  { return nil }
func (NoopHooks) BeforePageInit() error   { return nil }
func (NoopHooks) AfterPageInit() error    { return nil }
func (NoopHooks) BeforeGroupInit() error  { return nil }
func (NoopHooks) AfterGroupInit() error   { return nil }
func (NoopHooks) BeforeDetailEval() error { return nil }
func (NoopHooks) AfterDetailEval() error  { return nil }

// NoopResolver implements Resolver for reports without delayed elements.
type NoopResolver struct{}

func (NoopResolver) ResolveBand(Band, Evaluation) error  { return nil }
func (NoopResolver) ResolveGroup(Evaluation, bool) error { return nil }
func (NoopResolver) ResolveColumn(Evaluation) error      { return nil }
func (NoopResolver) ResolvePage(Evaluation) error        { return nil }
func (NoopResolver) ResolveReport() error                { return nil }
func (NoopResolver) ResolveMaster() error                { return nil }

// NoopCalculator implements Calculator for reports without variables or groups.
type NoopCalculator struct{}

func (NoopCalculator) InitializeVariables(Scope, Scope) error { return nil }
func (NoopCalculator) EstimateVariables() error               { return nil }
func (NoopCalculator) CalculateVariables() error              { return nil }
func (NoopCalculator) EstimateGroupRuptures() ([]bool, error) { return nil, nil }
func (NoopCalculator) SetPageNumber(int)                      {}
func (NoopCalculator) SetColumnNumber(int)                    {}

var (
	_ Hooks      = NoopHooks{}
	_ Resolver   = NoopResolver{}
	_ Calculator = NoopCalculator{}
)
