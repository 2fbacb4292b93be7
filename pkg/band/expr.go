package band

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/bandfill/pkg/fill"
)

var refPattern = regexp.MustCompile(`\$([FV])\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// Refs returns the field and variable names referenced by text, in order of
// appearance. Kinds are 'F' and 'V'.
func Refs(text string) []Ref {
	var out []Ref
	for _, m := range refPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, Ref{Kind: m[1][0], Name: m[2]})
	}
	return out
}

// Ref is a reference to a field or a variable.
type Ref struct {
	Kind byte
	Name string
}

func (r Ref) String() string { return fmt.Sprintf("$%c{%s}", r.Kind, r.Name) }

// Expand replaces every reference in text by its value under ev. Unknown
// references are an error.
func Expand(text string, values Values, ev fill.Evaluation) (string, error) {
	if !strings.Contains(text, "$") {
		return text, nil
	}
	var missing error
	out := refPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := refPattern.FindStringSubmatch(m)
		v, ok := lookup(values, sub[1][0], sub[2], ev)
		if !ok {
			if missing == nil {
				missing = fmt.Errorf("unknown reference %s", m)
			}
			return m
		}
		return format(v)
	})
	return out, missing
}

func lookup(values Values, kind byte, name string, ev fill.Evaluation) (any, bool) {
	if values == nil {
		return nil, false
	}
	if kind == 'V' {
		return values.Variable(name, ev)
	}
	return values.Field(name, ev)
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// condition is a print condition: a reference, optionally negated, or a
// reference compared to a literal with == or !=.
type condition struct {
	ref     Ref
	negate  bool
	op      string
	literal string
}

func parseCondition(s string) (*condition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	c := &condition{}
	for _, op := range []string{"==", "!="} {
		if lhs, rhs, ok := strings.Cut(s, op); ok {
			c.op = op
			c.literal = strings.Trim(strings.TrimSpace(rhs), `"'`)
			s = strings.TrimSpace(lhs)
			break
		}
	}
	if c.op == "" && strings.HasPrefix(s, "!") {
		c.negate = true
		s = strings.TrimSpace(s[1:])
	}
	m := refPattern.FindStringSubmatch(s)
	if m == nil || m[0] != s {
		return nil, fmt.Errorf("expected a single $F{} or $V{} reference, got %q", s)
	}
	c.ref = Ref{Kind: m[1][0], Name: m[2]}
	return c, nil
}

func (c *condition) eval(values Values, ev fill.Evaluation) (bool, error) {
	v, ok := lookup(values, c.ref.Kind, c.ref.Name, ev)
	if !ok {
		return false, fmt.Errorf("print when: unknown reference %s", c.ref)
	}
	switch c.op {
	case "==":
		return format(v) == c.literal, nil
	case "!=":
		return format(v) != c.literal, nil
	}
	return truthy(v) != c.negate, nil
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	}
	return true
}
