// Package lint implements FlowScript's semantic linter: a fixed, ordered set
// of independent rules running over a shared precomputed graph, in the
// Rule/registry style of a single-file/batch linter with minimal core
// interface plus one rule per concern.
package lint

import (
	"github.com/viant/flowscript/ir"
)

// Severity classifies a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Location pins a Diagnostic to the original-source position it was raised
// against, in the `{file, line}` shape the CLI's diagnostic output commits
// to — distinct from (but derived from) an ir.Provenance.
type Location struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

func locationOf(p ir.Provenance) Location {
	return Location{File: p.SourceFile, Line: p.LineNumber}
}

// Diagnostic is one finding produced by a Rule.
type Diagnostic struct {
	Code       string   `json:"code" yaml:"code"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Message    string   `json:"message" yaml:"message"`
	NodeID     string   `json:"node_id,omitempty" yaml:"nodeId,omitempty"`
	Location   Location `json:"location" yaml:"location"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Rule is one independent linter check over a precomputed Graph.
type Rule interface {
	Code() string
	Severity() Severity
	Check(g *Graph) []Diagnostic
}

// Option configures a Lint invocation.
type Option func(*options)

type options struct {
	rules []Rule
}

// WithRules overrides the default rule set, e.g. to run a subset in tests.
func WithRules(rules []Rule) Option {
	return func(o *options) { o.rules = rules }
}

// DefaultRules returns the fixed, ordered set of every built-in rule, so
// diagnostic emission order is deterministic regardless of map iteration.
func DefaultRules() []Rule {
	return []Rule{
		&tensionMissingAxis{},
		&requiredStateFields{},
		&multipleStates{},
		&orphanedNode{},
		&causalCycle{},
		&alternativesWithoutClosure{},
		&parkingMissingFields{},
		&deepBlockNesting{},
		&longCausalChain{},
	}
}

// Lint runs every configured rule over doc and returns every diagnostic, in
// rule-then-discovery order. It never returns an error: a document that
// fails to lint cleanly is reported via diagnostics, not a Go error.
func Lint(doc *ir.Document, opts ...Option) []Diagnostic {
	o := &options{rules: DefaultRules()}
	for _, opt := range opts {
		opt(o)
	}
	g := NewGraph(doc)

	var diags []Diagnostic
	for _, rule := range o.rules {
		diags = append(diags, rule.Check(g)...)
	}
	return diags
}

// HasErrors reports whether diags contains any SeverityError diagnostic; the
// CI-facing gate for "did this document lint cleanly".
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
