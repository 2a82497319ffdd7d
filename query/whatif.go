package query

import "github.com/viant/flowscript/ir"

// WhatIfFormat selects WhatIf's output shape.
type WhatIfFormat string

const (
	FormatFull    WhatIfFormat = "full"
	FormatSummary WhatIfFormat = "summary"
)

// WhatIfOption configures a WhatIf call.
type WhatIfOption func(*whatIfConfig)

type whatIfConfig struct {
	includeTemporal   bool
	includeEquivalent bool
	summary           bool
}

// WithWhatIfIncludeTemporal toggles following `temporal` edges as
// consequences; defaults to true.
func WithWhatIfIncludeTemporal(include bool) WhatIfOption {
	return func(c *whatIfConfig) { c.includeTemporal = include }
}

// WithWhatIfIncludeEquivalent also follows `equivalent` edges forward.
func WithWhatIfIncludeEquivalent(include bool) WhatIfOption {
	return func(c *whatIfConfig) { c.includeEquivalent = include }
}

// WithWhatIfSummary yields the benefits/risks summary shape.
func WithWhatIfSummary(summary bool) WhatIfOption {
	return func(c *whatIfConfig) { c.summary = summary }
}

// ImpactNode is one node reached during forward traversal.
type ImpactNode struct {
	NodeID  string `json:"node_id" yaml:"nodeId"`
	Content string `json:"content" yaml:"content"`
	Depth   int    `json:"depth" yaml:"depth"`
}

// TensionInZone is a tension edge whose endpoints fall within the impact
// zone reached by a WhatIf traversal.
type TensionInZone struct {
	Source    string  `json:"source" yaml:"source"`
	Target    string  `json:"target" yaml:"target"`
	AxisLabel *string `json:"axis_label,omitempty" yaml:"axisLabel,omitempty"`
}

// WhatIfResult is the outcome of a WhatIf call, discriminated by Format.
type WhatIfResult struct {
	Format               WhatIfFormat    `json:"format" yaml:"format"`
	Source               string          `json:"source,omitempty" yaml:"source,omitempty"`
	Direct               []ImpactNode    `json:"direct,omitempty" yaml:"direct,omitempty"`
	Indirect             []ImpactNode    `json:"indirect,omitempty" yaml:"indirect,omitempty"`
	ImpactTree           []ImpactNode    `json:"impact_tree,omitempty" yaml:"impactTree,omitempty"`
	TensionsInImpactZone []TensionInZone `json:"tensions_in_impact_zone,omitempty" yaml:"tensionsInImpactZone,omitempty"`
	Metadata             map[string]any  `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Summary-format-only fields.
	Benefits    []ImpactNode `json:"benefits,omitempty" yaml:"benefits,omitempty"`
	Risks       []ImpactNode `json:"risks,omitempty" yaml:"risks,omitempty"`
	KeyTradeoff string       `json:"key_tradeoff,omitempty" yaml:"keyTradeoff,omitempty"`
}

// WhatIf performs a forward traversal over `causes` (and, by default,
// `temporal`; optionally `equivalent`) edges from nodeID, partitioning
// descendants into direct (depth 1) and indirect (depth > 1).
func (e *Engine) WhatIf(nodeID string, opts ...WhatIfOption) (*WhatIfResult, error) {
	source, err := e.node(nodeID)
	if err != nil {
		return nil, err
	}
	cfg := whatIfConfig{includeTemporal: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	visited := map[string]int{source.ID: 0}
	var order []traversalStep
	queue := []traversalStep{{source, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.node.ID != source.ID {
			order = append(order, cur)
		}
		for _, rel := range e.doc.RelationshipsFrom(cur.node.ID) {
			if !isWhatIfEdge(rel.Type, cfg) {
				continue
			}
			if _, seen := visited[rel.Target]; seen {
				continue
			}
			next := e.doc.Node(rel.Target)
			if next == nil {
				continue
			}
			visited[rel.Target] = cur.depth + 1
			queue = append(queue, traversalStep{next, cur.depth + 1})
		}
	}

	res := &WhatIfResult{}
	descendants := make(map[string]bool, len(order))
	for _, v := range order {
		descendants[v.node.ID] = true
		n := ImpactNode{NodeID: v.node.ID, Content: v.node.Content, Depth: v.depth}
		res.ImpactTree = append(res.ImpactTree, n)
		if v.depth == 1 {
			res.Direct = append(res.Direct, n)
		} else {
			res.Indirect = append(res.Indirect, n)
		}
	}

	var firstAxis string
	for _, rel := range e.doc.RelationshipsOfType(ir.RelTension) {
		if !(descendants[rel.Source] || descendants[rel.Target]) {
			continue
		}
		res.TensionsInImpactZone = append(res.TensionsInImpactZone, TensionInZone{Source: rel.Source, Target: rel.Target, AxisLabel: rel.AxisLabel})
		if firstAxis == "" && rel.AxisLabel != nil {
			firstAxis = *rel.AxisLabel
		}
	}

	if cfg.summary {
		riskEndpoint := make(map[string]bool)
		for _, t := range res.TensionsInImpactZone {
			riskEndpoint[t.Source] = true
			riskEndpoint[t.Target] = true
		}
		for _, n := range res.Direct {
			if riskEndpoint[n.NodeID] {
				res.Risks = append(res.Risks, n)
			} else {
				res.Benefits = append(res.Benefits, n)
			}
		}
		res.KeyTradeoff = firstAxis
		res.Metadata = map[string]any{"tension_count": len(res.TensionsInImpactZone)}

		// Summary format replaces the full impact-zone shape with
		// benefits/risks/key_tradeoff; it does not additionally carry it.
		res.Direct = nil
		res.Indirect = nil
		res.ImpactTree = nil
		res.TensionsInImpactZone = nil

		res.Format = FormatSummary
		res.Source = source.ID
		return res, nil
	}

	res.Format = FormatFull
	res.Source = source.ID
	res.Metadata = map[string]any{"tension_count": len(res.TensionsInImpactZone)}
	return res, nil
}

func isWhatIfEdge(t ir.RelationshipType, cfg whatIfConfig) bool {
	switch t {
	case ir.RelCauses:
		return true
	case ir.RelTemporal:
		return cfg.includeTemporal
	case ir.RelEquivalent:
		return cfg.includeEquivalent
	default:
		return false
	}
}
