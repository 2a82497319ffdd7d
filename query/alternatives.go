package query

import (
	"github.com/pkg/errors"
	"github.com/viant/flowscript/ir"
)

// AlternativesFormat selects Alternatives' output shape; the discriminator
// that lets callers statically narrow the result.
type AlternativesFormat string

const (
	FormatComparison AlternativesFormat = "comparison"
	FormatTree       AlternativesFormat = "tree"
	FormatSimple     AlternativesFormat = "simple"
)

// AlternativesOption configures an Alternatives call.
type AlternativesOption func(*alternativesConfig)

type alternativesConfig struct {
	format              AlternativesFormat
	includeConsequences bool
	showRejectedReasons bool
}

// WithAlternativesFormat selects the output format; defaults to
// FormatComparison.
func WithAlternativesFormat(f AlternativesFormat) AlternativesOption {
	return func(c *alternativesConfig) { c.format = f }
}

// WithAlternativesIncludeConsequences attaches each alternative's
// what_if descendants.
func WithAlternativesIncludeConsequences(include bool) AlternativesOption {
	return func(c *alternativesConfig) { c.includeConsequences = include }
}

// WithAlternativesShowRejectedReasons attaches `thought`-typed descendants
// of rejected alternatives as rejection reasons.
func WithAlternativesShowRejectedReasons(show bool) AlternativesOption {
	return func(c *alternativesConfig) { c.showRejectedReasons = show }
}

// AlternativeOption is one alternative in query output.
type AlternativeOption struct {
	NodeID       string         `json:"node_id" yaml:"nodeId"`
	Content      string         `json:"content" yaml:"content"`
	Chosen       bool           `json:"chosen" yaml:"chosen"`
	Rationale    string         `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	DecidedOn    string         `json:"decided_on,omitempty" yaml:"decidedOn,omitempty"`
	Tensions     []TensionEntry `json:"tensions,omitempty" yaml:"tensions,omitempty"`
	Consequences []ImpactNode   `json:"consequences,omitempty" yaml:"consequences,omitempty"`
	Rejected     []string       `json:"rejected_reasons,omitempty" yaml:"rejectedReasons,omitempty"`
	Children     []string       `json:"children,omitempty" yaml:"children,omitempty"`
}

// DecisionSummary is the comparison-format decision synopsis.
type DecisionSummary struct {
	Chosen     string   `json:"chosen" yaml:"chosen"`
	Rationale  string   `json:"rationale" yaml:"rationale"`
	Rejected   []string `json:"rejected" yaml:"rejected"`
	KeyFactors []string `json:"key_factors" yaml:"keyFactors"`
}

// AlternativesResult is the outcome of an Alternatives call, discriminated
// by Format.
type AlternativesResult struct {
	Format          AlternativesFormat `json:"format" yaml:"format"`
	Question        string             `json:"question" yaml:"question"`
	Options          []AlternativeOption `json:"options" yaml:"options"`
	DecisionSummary *DecisionSummary   `json:"decision_summary,omitempty" yaml:"decisionSummary,omitempty"`

	// Simple-format-only fields.
	OptionsConsidered []string `json:"options_considered,omitempty" yaml:"optionsConsidered,omitempty"`
	Chosen            string   `json:"chosen,omitempty" yaml:"chosen,omitempty"`
	Reason            string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Alternatives enumerates the options attached to a question node, along
// with their chosen/rejected status, tensions, and (optionally)
// consequences.
func (e *Engine) Alternatives(questionID string, opts ...AlternativesOption) (*AlternativesResult, error) {
	question, err := e.node(questionID)
	if err != nil {
		return nil, err
	}
	if question.Type != ir.NodeQuestion {
		return nil, errors.Wrapf(ErrWrongType, "node %q is %s, not question", questionID, question.Type)
	}

	cfg := alternativesConfig{format: FormatComparison}
	for _, opt := range opts {
		opt(&cfg)
	}

	decided := e.doc.StatesOfType(ir.StateDecided)

	var opts2 []AlternativeOption
	for _, rel := range e.doc.RelationshipsFrom(question.ID) {
		if rel.Type != ir.RelAlternative {
			continue
		}
		alt := e.doc.Node(rel.Target)
		if alt == nil {
			continue
		}
		option := AlternativeOption{NodeID: alt.ID, Content: alt.Content, Children: alt.Children}
		for _, st := range decided {
			matches := st.NodeID == alt.ID
			if !matches {
				if decidedNode := e.doc.Node(st.NodeID); decidedNode != nil {
					matches = decidedNode.Content == alt.Content
				}
			}
			if !matches {
				continue
			}
			option.Chosen = true
			option.Rationale = st.Fields["rationale"]
			option.DecidedOn = st.Fields["on"]
		}
		option.Tensions = e.tensionsTouching(alt.ID)

		if cfg.includeConsequences {
			if whatIf, err := e.WhatIf(alt.ID); err == nil {
				option.Consequences = whatIf.ImpactTree
			}
		}
		if cfg.showRejectedReasons && !option.Chosen {
			option.Rejected = e.thoughtDescendants(alt.ID)
		}

		opts2 = append(opts2, option)
	}

	res := &AlternativesResult{Format: cfg.format, Question: question.Content, Options: opts2}

	switch cfg.format {
	case FormatSimple:
		for _, o := range opts2 {
			res.OptionsConsidered = append(res.OptionsConsidered, o.Content)
			if o.Chosen {
				res.Chosen = o.Content
				res.Reason = o.Rationale
			}
		}
	case FormatTree:
		// Options carry only their own direct Children ids; descendants are
		// not expanded into a nested tree, so this format neither detects
		// nor reports cycles.
	default: // FormatComparison
		summary := &DecisionSummary{}
		var axes []string
		seenAxis := make(map[string]bool)
		for _, o := range opts2 {
			if o.Chosen {
				summary.Chosen = o.Content
				summary.Rationale = o.Rationale
			} else {
				summary.Rejected = append(summary.Rejected, o.Content)
			}
			for _, t := range o.Tensions {
				if t.AxisLabel != nil && !seenAxis[*t.AxisLabel] {
					seenAxis[*t.AxisLabel] = true
					axes = append(axes, *t.AxisLabel)
				}
			}
		}
		summary.KeyFactors = axes
		res.DecisionSummary = summary
	}

	return res, nil
}

// tensionsTouching returns every tension edge touching id or any of its
// causal descendants.
func (e *Engine) tensionsTouching(id string) []TensionEntry {
	visited := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, rel := range e.doc.RelationshipsFrom(cur) {
			if rel.Type != ir.RelCauses || visited[rel.Target] {
				continue
			}
			visited[rel.Target] = true
			queue = append(queue, rel.Target)
		}
	}

	var out []TensionEntry
	for _, rel := range e.doc.RelationshipsOfType(ir.RelTension) {
		if visited[rel.Source] || visited[rel.Target] {
			out = append(out, TensionEntry{Source: rel.Source, Target: rel.Target, AxisLabel: rel.AxisLabel})
		}
	}
	return out
}

// thoughtDescendants returns the content of every thought-typed causal
// descendant of id.
func (e *Engine) thoughtDescendants(id string) []string {
	visited := map[string]bool{id: true}
	queue := []string{id}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, rel := range e.doc.RelationshipsFrom(cur) {
			if rel.Type != ir.RelCauses || visited[rel.Target] {
				continue
			}
			visited[rel.Target] = true
			queue = append(queue, rel.Target)
			if n := e.doc.Node(rel.Target); n != nil && n.Type == ir.NodeThought {
				out = append(out, n.Content)
			}
		}
	}
	return out
}
