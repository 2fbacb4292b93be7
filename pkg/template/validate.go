package template

import (
	"fmt"

	"github.com/matzehuels/bandfill/pkg/band"
	"github.com/matzehuels/bandfill/pkg/dataset"
	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

var scopeNames = map[string]fill.Scope{
	"":       fill.ScopeReport,
	"report": fill.ScopeReport,
	"page":   fill.ScopePage,
	"column": fill.ScopeColumn,
	"group":  fill.ScopeGroup,
}

// section is a band of the template with its resolved name.
type section struct {
	name string
	spec *BandSpec

	// fixed sections are filled at their own height and cannot stretch.
	fixed bool
}

func sectionName(base string, i, n int) string {
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, i)
}

func bandName(b *BandSpec, def string) string {
	if b.Name != "" {
		return b.Name
	}
	return def
}

// sections lists every band of the template in template order.
func (s *Spec) sections() []section {
	var out []section
	add := func(b *BandSpec, def string, fixed bool) {
		if b != nil {
			out = append(out, section{name: bandName(b, def), spec: b, fixed: fixed})
		}
	}
	add(s.Background, "background", false)
	add(s.Title, "title", false)
	add(s.PageHeader, "page_header", false)
	add(s.ColumnHeader, "column_header", true)
	for _, g := range s.Groups {
		for i := range g.Header {
			add(&g.Header[i], sectionName(g.Name+".header", i, len(g.Header)), false)
		}
	}
	for i := range s.Detail {
		add(&s.Detail[i], sectionName("detail", i, len(s.Detail)), true)
	}
	for _, g := range s.Groups {
		for i := range g.Footer {
			add(&g.Footer[i], sectionName(g.Name+".footer", i, len(g.Footer)), false)
		}
	}
	add(s.ColumnFooter, "column_footer", true)
	add(s.PageFooter, "page_footer", true)
	add(s.LastPageFooter, "last_page_footer", true)
	add(s.Summary, "summary", false)
	add(s.NoData, "no_data", false)
	return out
}

// Geometry returns the page geometry with defaults applied. A missing
// column width shares the printable width evenly between the columns.
func (s *Spec) Geometry() fill.Geometry {
	p := s.Page
	g := fill.Geometry{
		PageWidth:     p.Width,
		PageHeight:    p.Height,
		TopMargin:     orDefault(p.TopMargin, DefaultMargin),
		BottomMargin:  orDefault(p.BottomMargin, DefaultMargin),
		LeftMargin:    orDefault(p.LeftMargin, DefaultMargin),
		RightMargin:   orDefault(p.RightMargin, DefaultMargin),
		ColumnCount:   max(p.Columns, 1),
		ColumnWidth:   p.ColumnWidth,
		ColumnSpacing: p.ColumnSpacing,
	}
	if g.PageWidth == 0 {
		g.PageWidth = DefaultPageWidth
	}
	if g.PageHeight == 0 {
		g.PageHeight = DefaultPageHeight
	}
	if p.Direction == "rtl" {
		g.Direction = fill.RightToLeft
	}
	if g.ColumnWidth == 0 {
		printable := g.PageWidth - g.LeftMargin - g.RightMargin - g.ColumnSpacing*(g.ColumnCount-1)
		g.ColumnWidth = printable / g.ColumnCount
	}
	return g
}

// GroupKeys returns the group key fields, outermost first.
func (s *Spec) GroupKeys() []dataset.GroupKey {
	out := make([]dataset.GroupKey, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = dataset.GroupKey{Name: g.Name, Field: g.Field}
	}
	return out
}

// CalculatorVariables converts the user variables for [dataset.NewCalculator].
func (s *Spec) CalculatorVariables() ([]dataset.Variable, error) {
	out := make([]dataset.Variable, 0, len(s.Variables))
	for _, v := range s.Variables {
		calc, ok := dataset.ParseCalculation(v.Calculation)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "variable %s: unknown calculation %q", v.Name, v.Calculation)
		}
		scope, ok := scopeNames[v.Reset]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "variable %s: unknown reset scope %q", v.Name, v.Reset)
		}
		out = append(out, dataset.Variable{Name: v.Name, Field: v.Field, Calculation: calc, Reset: scope, ResetGroup: v.ResetGroup})
	}
	return out, nil
}

// variableNames returns every variable a band may reference.
func (s *Spec) variableNames() map[string]bool {
	names := map[string]bool{
		dataset.PageNumber:   true,
		dataset.ColumnNumber: true,
		dataset.ReportCount:  true,
		dataset.PageCount:    true,
		dataset.ColumnCount:  true,
	}
	for _, g := range s.Groups {
		names[g.Name+dataset.GroupCountSuffix] = true
	}
	for _, v := range s.Variables {
		names[v.Name] = true
	}
	return names
}

// Validate checks the template for errors that do not depend on the data.
func (s *Spec) Validate() error {
	if err := errs.ValidateName("template", s.Name); err != nil {
		return err
	}
	if s.Page.Direction != "" && s.Page.Direction != "ltr" && s.Page.Direction != "rtl" {
		return errs.New(errs.ErrCodeInvalidGeometry, "unknown column direction %q", s.Page.Direction)
	}
	if err := s.Geometry().Validate(); err != nil {
		return err
	}
	policy, ok := fill.ParseNoDataPolicy(s.WhenNoData)
	if !ok {
		return errs.New(errs.ErrCodeInvalidTemplate, "unknown no-data policy %q", s.WhenNoData)
	}
	if policy == fill.NoDataSection && s.NoData == nil {
		return errs.New(errs.ErrCodeInvalidTemplate, "no-data policy %s needs a no_data section", s.WhenNoData)
	}

	groups := make(map[string]bool, len(s.Groups))
	for _, g := range s.Groups {
		if err := errs.ValidateName("group", g.Name); err != nil {
			return err
		}
		if groups[g.Name] {
			return errs.New(errs.ErrCodeInvalidTemplate, "duplicate group %q", g.Name)
		}
		groups[g.Name] = true
		if g.Field == "" {
			return errs.New(errs.ErrCodeInvalidTemplate, "group %s has no key field", g.Name)
		}
		if _, ok := fill.ParseFooterPosition(g.FooterPosition); !ok {
			return errs.New(errs.ErrCodeInvalidTemplate, "group %s: unknown footer position %q", g.Name, g.FooterPosition)
		}
		if g.MinHeightToStartNewPage < 0 {
			return errs.New(errs.ErrCodeInvalidTemplate, "group %s: negative minimum height", g.Name)
		}
	}

	vars, err := s.CalculatorVariables()
	if err != nil {
		return err
	}
	for _, v := range vars {
		if v.Reset == fill.ScopeGroup && !groups[v.ResetGroup] {
			return errs.New(errs.ErrCodeInvalidTemplate, "variable %s resets on unknown group %q", v.Name, v.ResetGroup)
		}
	}

	known := s.variableNames()
	names := make(map[string]bool)
	for _, sec := range s.sections() {
		if names[sec.name] {
			return errs.New(errs.ErrCodeInvalidTemplate, "duplicate band name %q", sec.name)
		}
		names[sec.name] = true
		if err := validateSection(sec, groups, known); err != nil {
			return err
		}
	}
	return nil
}

func validateSection(sec section, groups, vars map[string]bool) error {
	b := sec.spec
	if _, ok := band.ParseSplitType(b.Split); !ok {
		return errs.New(errs.ErrCodeInvalidTemplate, "band %s: unknown split type %q", sec.name, b.Split)
	}
	if sec.fixed && b.Stretch != nil {
		return errs.New(errs.ErrCodeInvalidTemplate, "band %s cannot stretch", sec.name)
	}
	texts := []string{b.PrintWhen}
	for i, e := range b.Elements {
		if _, ok := parseEvalTime(e.EvalTime); !ok {
			return errs.New(errs.ErrCodeInvalidTemplate, "band %s: element %d: unknown eval time %q", sec.name, i, e.EvalTime)
		}
		if g := e.PrintWhenGroupChanges; g != "" && !groups[g] {
			return errs.New(errs.ErrCodeInvalidTemplate, "band %s: element %d prints on unknown group %q", sec.name, i, g)
		}
		texts = append(texts, e.Text)
	}
	for _, t := range texts {
		for _, r := range band.Refs(t) {
			if r.Kind == 'V' && !vars[r.Name] {
				return errs.New(errs.ErrCodeInvalidTemplate, "band %s: unknown variable %s", sec.name, r)
			}
		}
	}
	return nil
}

func parseEvalTime(s string) (band.EvalTime, bool) {
	switch s {
	case "", "now":
		return band.EvalNow, true
	case "report":
		return band.EvalReport, true
	}
	return band.EvalNow, false
}
