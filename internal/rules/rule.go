package rules

import (
	"fmt"
	"iter"
	"strings"
)

// Rule is a literal substitution. Pattern is matched as an exact,
// case-sensitive substring; it is never treated as a regular expression.
type Rule struct {
	Pattern     string `yaml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// Table is an ordered, immutable sequence of rules. Order is significant:
// a rule runs against the output of every rule before it.
type Table struct {
	rules []Rule
}

// New builds a table from rules in the given order and validates it.
func New(rs ...Rule) (*Table, error) {
	t := &Table{rules: append([]Rule(nil), rs...)}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is like New but panics on an invalid table. Used for the
// built-in table only.
func MustNew(rs ...Rule) *Table {
	t, err := New(rs...)
	if err != nil {
		panic(fmt.Sprintf("rules: invalid built-in table: %v", err))
	}
	return t
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// At returns the rule at position i.
func (t *Table) At(i int) Rule {
	return t.rules[i]
}

// All iterates the rules in application order.
func (t *Table) All() iter.Seq2[int, Rule] {
	return func(yield func(int, Rule) bool) {
		for i, r := range t.rules {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Rules returns a copy of the rules in application order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Patterns returns every source pattern in application order.
func (t *Table) Patterns() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Pattern
	}
	return out
}

// Unreachable lists the rules that can never match once special has been
// applied to the whole content ahead of the table: any rule whose pattern
// embeds the special token.
func Unreachable(special Rule, t *Table) []Rule {
	if special.Pattern == "" {
		return nil
	}
	var out []Rule
	for _, r := range t.rules {
		if r.Pattern != special.Pattern && strings.Contains(r.Pattern, special.Pattern) {
			out = append(out, r)
		}
	}
	return out
}

// apply runs rs over s in order. The substitute package owns the public
// engine; this copy keeps validation free of an import cycle.
func apply(s string, rs []Rule) string {
	for _, r := range rs {
		if r.Pattern == "" {
			continue
		}
		s = strings.ReplaceAll(s, r.Pattern, r.Replacement)
	}
	return s
}
