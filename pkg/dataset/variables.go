package dataset

import (
	"fmt"
	"strconv"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// Built-in variable names.
const (
	PageNumber   = "PAGE_NUMBER"
	ColumnNumber = "COLUMN_NUMBER"
	ReportCount  = "REPORT_COUNT"
	PageCount    = "PAGE_COUNT"
	ColumnCount  = "COLUMN_COUNT"

	// GroupCountSuffix is appended to a group name for the count of records
	// in the current group instance.
	GroupCountSuffix = "_COUNT"
)

// Calculation is how a variable folds the values of its field.
type Calculation int

const (
	Count Calculation = iota
	Sum
	Average
	Lowest
	Highest
	First
)

var calculationNames = map[Calculation]string{
	Count:   "count",
	Sum:     "sum",
	Average: "average",
	Lowest:  "lowest",
	Highest: "highest",
	First:   "first",
}

func (c Calculation) String() string {
	if n, ok := calculationNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCalculation returns the calculation with the given name. The empty
// string is [Count].
func ParseCalculation(s string) (Calculation, bool) {
	if s == "" {
		return Count, true
	}
	for c, n := range calculationNames {
		if n == s {
			return c, true
		}
	}
	return Count, false
}

// Variable is a user variable computed once per record.
type Variable struct {
	Name        string
	Field       string // empty counts records
	Calculation Calculation
	Reset       fill.Scope
	ResetGroup  string // group whose start resets the variable, with Reset == ScopeGroup
}

// accumulator holds the running state of one variable.
type accumulator struct {
	count int
	sum   float64
	low   float64
	high  float64
	first any
}

func (a *accumulator) add(v Variable, value any) error {
	if v.Field != "" && value == nil {
		return nil
	}
	if v.Calculation == Count || v.Calculation == First {
		if a.count == 0 {
			a.first = value
		}
		a.count++
		return nil
	}
	n, err := number(value)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidData, err, "variable %s", v.Name)
	}
	if a.count == 0 || n < a.low {
		a.low = n
	}
	if a.count == 0 || n > a.high {
		a.high = n
	}
	a.sum += n
	a.count++
	return nil
}

func (a *accumulator) value(c Calculation) any {
	switch c {
	case Count:
		return a.count
	case Sum:
		return a.sum
	case Average:
		if a.count == 0 {
			return nil
		}
		return a.sum / float64(a.count)
	case Lowest:
		if a.count == 0 {
			return nil
		}
		return a.low
	case Highest:
		if a.count == 0 {
			return nil
		}
		return a.high
	case First:
		return a.first
	}
	return nil
}

func number(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
