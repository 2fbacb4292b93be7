package fill

import (
	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// NoDataPolicy selects what a report produces when its data source is empty.
type NoDataPolicy int

const (
	// NoPages produces an empty document.
	NoPages NoDataPolicy = iota
	// BlankPage produces a single page without content.
	BlankPage
	// AllSectionsNoDetail fills every section once, without detail rows.
	AllSectionsNoDetail
	// NoDataSection fills the dedicated no-data section.
	NoDataSection
)

var noDataNames = map[NoDataPolicy]string{
	NoPages:             "no-pages",
	BlankPage:           "blank-page",
	AllSectionsNoDetail: "all-sections-no-detail",
	NoDataSection:       "no-data-section",
}

// String returns the policy name.
func (p NoDataPolicy) String() string {
	if n, ok := noDataNames[p]; ok {
		return n
	}
	return "unknown"
}

// ParseNoDataPolicy returns the policy with the given name.
func ParseNoDataPolicy(s string) (NoDataPolicy, bool) {
	if s == "" {
		return NoPages, true
	}
	for p, n := range noDataNames {
		if n == s {
			return p, true
		}
	}
	return NoPages, false
}

// Report is a compiled template: its geometry, its sections and its groups.
// Sections that are absent are nil.
type Report struct {
	Name     string
	Geometry Geometry

	Background SplittableBand
	Title      SplittableBand
	PageHeader SplittableBand

	ColumnHeader   Band
	Detail         []Band
	ColumnFooter   Band
	PageFooter     Band
	LastPageFooter Band

	Summary SplittableBand
	NoData  SplittableBand

	// Groups are ordered outermost first.
	Groups []*Group

	WhenNoData NoDataPolicy

	TitleNewPage                   bool
	SummaryNewPage                 bool
	SummaryWithPageHeaderAndFooter bool
	FloatColumnFooter              bool
	IgnorePagination               bool
}

// Validate checks the report for structural problems a fill pass cannot recover from.
func (r *Report) Validate() error {
	if err := r.Geometry.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(r.Groups))
	for i, g := range r.Groups {
		if g == nil {
			return errs.New(errs.ErrCodeInvalidTemplate, "group %d is nil", i)
		}
		if seen[g.Name] {
			return errs.New(errs.ErrCodeInvalidTemplate, "duplicate group %q", g.Name)
		}
		seen[g.Name] = true
		if g.MinHeightToStartNewPage < 0 {
			return errs.New(errs.ErrCodeInvalidTemplate, "group %q: negative minimum height", g.Name)
		}
	}
	if r.WhenNoData == NoDataSection && r.NoData == nil {
		return errs.New(errs.ErrCodeInvalidTemplate, "no-data policy %s needs a no-data section", r.WhenNoData)
	}
	return nil
}

// bands returns every non-nil section of the report except the background,
// in template order.
func (r *Report) bands() []Band {
	var out []Band
	add := func(b Band) {
		if b != nil {
			out = append(out, b)
		}
	}
	addSplittable := func(b SplittableBand) {
		if b != nil {
			out = append(out, b)
		}
	}
	addSplittable(r.Title)
	addSplittable(r.PageHeader)
	add(r.ColumnHeader)
	for _, g := range r.Groups {
		for _, b := range g.Header {
			addSplittable(b)
		}
	}
	for _, b := range r.Detail {
		add(b)
	}
	for i := len(r.Groups) - 1; i >= 0; i-- {
		for _, b := range r.Groups[i].Footer {
			addSplittable(b)
		}
	}
	add(r.ColumnFooter)
	add(r.PageFooter)
	add(r.LastPageFooter)
	addSplittable(r.Summary)
	addSplittable(r.NoData)
	return out
}
