package substitute

import (
	"strings"

	"literal-localizer/internal/rules"
)

// Hit records how many occurrences of one rule's pattern were replaced.
type Hit struct {
	Rule  rules.Rule
	Count int
}

// Engine applies an optional pre-pass rule and then a rule table to text.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	table   *rules.Table
	prePass *rules.Rule
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrePass replaces every occurrence of r before the table runs. Rules
// whose pattern contains r.Pattern become unreachable; see rules.Unreachable.
func WithPrePass(r rules.Rule) Option {
	return func(e *Engine) {
		e.prePass = &r
	}
}

// New creates an engine over table.
func New(table *rules.Table, opts ...Option) *Engine {
	e := &Engine{table: table}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the rule table the engine applies.
func (e *Engine) Table() *rules.Table {
	return e.table
}

// PrePass returns the pre-pass rule, if any.
func (e *Engine) PrePass() (rules.Rule, bool) {
	if e.prePass == nil {
		return rules.Rule{}, false
	}
	return *e.prePass, true
}

// Transform returns content with the pre-pass and every rule applied in order.
func (e *Engine) Transform(content string) string {
	out, _ := e.Trace(content)
	return out
}

// Trace is Transform that also reports which rules fired, in firing order.
func (e *Engine) Trace(content string) (string, []Hit) {
	var hits []Hit
	if e.prePass != nil {
		content = replace(content, *e.prePass, &hits)
	}
	for _, r := range e.table.All() {
		content = replace(content, r, &hits)
	}
	return content, hits
}

// Apply runs table over content with no pre-pass.
func Apply(content string, table *rules.Table) string {
	return New(table).Transform(content)
}

// ApplyWithPrePass replaces every occurrence of special first, then runs table.
func ApplyWithPrePass(content string, special rules.Rule, table *rules.Table) string {
	return New(table, WithPrePass(special)).Transform(content)
}

func replace(content string, r rules.Rule, hits *[]Hit) string {
	if r.Pattern == "" {
		return content
	}
	n := strings.Count(content, r.Pattern)
	if n == 0 {
		return content
	}
	*hits = append(*hits, Hit{Rule: r, Count: n})
	return strings.ReplaceAll(content, r.Pattern, r.Replacement)
}
