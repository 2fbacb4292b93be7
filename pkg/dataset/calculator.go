package dataset

import (
	"fmt"
	"maps"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// GroupKey names a report group and the field whose value change starts a
// new group instance. Keys are ordered outermost first, like the groups of
// a [fill.Report].
type GroupKey struct {
	Name  string
	Field string
}

// Calculator computes report variables and group ruptures over a
// [Dataset]. It implements [fill.Calculator] and serves field and variable
// values to bands for each evaluation mode:
//
//   - default: the current record and the variables as last calculated
//   - old: the previous record and the variables as they were when the
//     current record was reached
//   - estimated: the current record and the variables as they will be once
//     it is calculated
type Calculator struct {
	ds     *Dataset
	groups []GroupKey
	vars   []Variable

	acc       map[string]*accumulator
	values    map[string]any
	old       map[string]any
	estimated map[string]any

	ruptures []bool
	seen     int
}

// NewCalculator creates a calculator over ds. Each group gets a
// <name>_COUNT variable next to the built-in counters; vars are computed
// in the given order.
func NewCalculator(ds *Dataset, groups []GroupKey, vars ...Variable) (*Calculator, error) {
	c := &Calculator{
		ds:     ds,
		groups: groups,
		acc:    make(map[string]*accumulator),
		values: make(map[string]any),
		seen:   -2,
	}

	builtin := []Variable{
		{Name: ReportCount, Reset: fill.ScopeReport},
		{Name: PageCount, Reset: fill.ScopePage},
		{Name: ColumnCount, Reset: fill.ScopeColumn},
	}
	for _, g := range groups {
		if err := errs.ValidateName("group", g.Name); err != nil {
			return nil, err
		}
		if g.Field == "" {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "group %s has no key field", g.Name)
		}
		builtin = append(builtin, Variable{Name: g.Name + GroupCountSuffix, Reset: fill.ScopeGroup, ResetGroup: g.Name})
	}

	seen := map[string]bool{PageNumber: true, ColumnNumber: true}
	for _, v := range append(builtin, vars...) {
		if err := errs.ValidateName("variable", v.Name); err != nil {
			return nil, err
		}
		if seen[v.Name] {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "duplicate variable %s", v.Name)
		}
		if v.Reset == fill.ScopeGroup && c.groupIndex(v.ResetGroup) < 0 {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "variable %s resets on unknown group %q", v.Name, v.ResetGroup)
		}
		seen[v.Name] = true
		c.vars = append(c.vars, v)
		c.acc[v.Name] = &accumulator{}
	}
	c.refresh()
	return c, nil
}

// MustNewCalculator is like [NewCalculator] but panics on error.
func MustNewCalculator(ds *Dataset, groups []GroupKey, vars ...Variable) *Calculator {
	c, err := NewCalculator(ds, groups, vars...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calculator) groupIndex(name string) int {
	for i, g := range c.groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// sync snapshots the old values the first time the calculator is used
// after the dataset moved to another record.
func (c *Calculator) sync() {
	if pos := c.ds.Position(); pos != c.seen {
		c.seen = pos
		c.old = maps.Clone(c.values)
		c.estimated = nil
	}
}

func (c *Calculator) refresh() {
	for _, v := range c.vars {
		c.values[v.Name] = c.acc[v.Name].value(v.Calculation)
	}
}

// InitializeVariables resets the variables of scope reset. A report reset
// clears everything, a page reset also clears column variables, and a
// group reset clears the variables of the groups that changed with the
// last estimated ruptures.
func (c *Calculator) InitializeVariables(reset, _ fill.Scope) error {
	c.sync()
	for _, v := range c.vars {
		if c.resets(v, reset) {
			c.acc[v.Name] = &accumulator{}
		}
	}
	if reset == fill.ScopeReport {
		c.ruptures = nil
	}
	c.refresh()
	return nil
}

func (c *Calculator) resets(v Variable, scope fill.Scope) bool {
	switch scope {
	case fill.ScopeReport:
		return true
	case fill.ScopePage:
		return v.Reset == fill.ScopePage || v.Reset == fill.ScopeColumn
	case fill.ScopeColumn:
		return v.Reset == fill.ScopeColumn
	case fill.ScopeGroup:
		if v.Reset != fill.ScopeGroup {
			return false
		}
		i := c.groupIndex(v.ResetGroup)
		return c.ruptures == nil || (i >= 0 && i < len(c.ruptures) && c.ruptures[i])
	}
	return false
}

// EstimateVariables computes the values the variables will take once the
// current record is calculated, leaving the calculated values untouched.
func (c *Calculator) EstimateVariables() error {
	c.sync()
	est := maps.Clone(c.values)
	for _, v := range c.vars {
		a := *c.acc[v.Name]
		if err := a.add(v, c.fieldValue(v)); err != nil {
			return err
		}
		est[v.Name] = a.value(v.Calculation)
	}
	c.estimated = est
	return nil
}

// CalculateVariables folds the current record into every variable.
func (c *Calculator) CalculateVariables() error {
	c.sync()
	rec := c.ds.Current()
	if rec == nil {
		return errs.New(errs.ErrCodeInternal, "calculate variables without a current record")
	}
	for _, v := range c.vars {
		if err := c.acc[v.Name].add(v, c.fieldValue(v)); err != nil {
			return err
		}
	}
	c.estimated = nil
	c.refresh()
	return nil
}

func (c *Calculator) fieldValue(v Variable) any {
	if v.Field == "" {
		return true
	}
	return c.ds.Current()[v.Field]
}

// EstimateGroupRuptures compares the group key fields of the previous and
// the current record. Without a previous record every group changes. A
// change of an outer group also changes the groups inside it.
func (c *Calculator) EstimateGroupRuptures() ([]bool, error) {
	c.sync()
	cur, prev := c.ds.Current(), c.ds.Previous()
	if cur == nil {
		return nil, errs.New(errs.ErrCodeInternal, "estimate group ruptures without a current record")
	}
	flags := make([]bool, len(c.groups))
	changed := prev == nil
	for i, g := range c.groups {
		if !changed && fmt.Sprint(cur[g.Field]) != fmt.Sprint(prev[g.Field]) {
			changed = true
		}
		flags[i] = changed
	}
	c.ruptures = flags
	return flags, nil
}

func (c *Calculator) SetPageNumber(n int) {
	c.sync()
	c.values[PageNumber] = n
}

func (c *Calculator) SetColumnNumber(n int) {
	c.sync()
	c.values[ColumnNumber] = n
}

// Field returns the value of a record field. Fields unknown to the dataset
// are reported as missing; known fields absent from a record are nil.
func (c *Calculator) Field(name string, ev fill.Evaluation) (any, bool) {
	if !c.ds.HasField(name) {
		return nil, false
	}
	rec := c.ds.Current()
	if ev == fill.EvalOld {
		rec = c.ds.Previous()
	}
	return rec[name], true
}

// Variable returns the value of a variable under ev.
func (c *Calculator) Variable(name string, ev fill.Evaluation) (any, bool) {
	c.sync()
	src := c.values
	switch ev {
	case fill.EvalOld:
		src = c.old
	case fill.EvalEstimated:
		if c.estimated != nil {
			src = c.estimated
		}
	}
	v, ok := src[name]
	return v, ok
}

// Names returns the names of every variable the calculator serves,
// built-ins first.
func (c *Calculator) Names() []string {
	out := []string{PageNumber, ColumnNumber}
	for _, v := range c.vars {
		out = append(out, v.Name)
	}
	return out
}

// Value returns the calculated value of a variable.
func (c *Calculator) Value(name string) any {
	v, _ := c.Variable(name, fill.EvalDefault)
	return v
}

var _ fill.Calculator = (*Calculator)(nil)
