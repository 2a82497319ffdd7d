package query

import "github.com/viant/flowscript/ir"

// WhyFormat selects Why's output shape.
type WhyFormat string

const (
	FormatChain   WhyFormat = "chain"
	FormatMinimal WhyFormat = "minimal"
)

// WhyOption configures a Why call.
type WhyOption func(*whyConfig)

type whyConfig struct {
	maxDepth          int // 0 means unlimited
	includeEquivalent bool
	minimal           bool
}

// WithWhyMaxDepth bounds the backward traversal.
func WithWhyMaxDepth(n int) WhyOption {
	return func(c *whyConfig) { c.maxDepth = n }
}

// WithWhyIncludeEquivalent also follows `equivalent` edges backward, in
// addition to `derives_from`.
func WithWhyIncludeEquivalent(include bool) WhyOption {
	return func(c *whyConfig) { c.includeEquivalent = include }
}

// WithWhyMinimal yields the minimal {root_cause, chain} shape.
func WithWhyMinimal(minimal bool) WhyOption {
	return func(c *whyConfig) { c.minimal = minimal }
}

// AncestorStep is one node reached during backward traversal.
type AncestorStep struct {
	NodeID  string `json:"node_id" yaml:"nodeId"`
	Content string `json:"content" yaml:"content"`
	Depth   int    `json:"depth" yaml:"depth"`
}

// traversalStep pairs a reached node with its BFS depth; shared by Why and
// WhatIf's traversals.
type traversalStep struct {
	node  *ir.Node
	depth int
}

// WhyResult is the outcome of a Why call, discriminated by Format.
type WhyResult struct {
	Format           WhyFormat      `json:"format" yaml:"format"`
	Target           string         `json:"target,omitempty" yaml:"target,omitempty"`
	CausalChain      []AncestorStep `json:"causal_chain,omitempty" yaml:"causalChain,omitempty"`
	RootCause        string         `json:"root_cause" yaml:"rootCause"`
	HasMultiplePaths bool           `json:"has_multiple_paths,omitempty" yaml:"hasMultiplePaths,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Chain is populated only in the minimal format: string contents only,
	// root-to-target order.
	Chain []string `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// Why performs a backward traversal from nodeID over `causes` edges (walked
// target-to-source) and `derives_from` edges (walked source-to-target), and
// optionally `equivalent` edges in both directions, producing its causal
// ancestry.
func (e *Engine) Why(nodeID string, opts ...WhyOption) (*WhyResult, error) {
	target, err := e.node(nodeID)
	if err != nil {
		return nil, err
	}
	cfg := whyConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	visited := make(map[string]int) // id -> depth first seen
	pathCount := make(map[string]int)
	var order []traversalStep

	queue := []traversalStep{{target, 0}}
	visited[target.ID] = 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.node.ID != target.ID {
			order = append(order, cur)
		}
		if cfg.maxDepth > 0 && cur.depth >= cfg.maxDepth {
			continue
		}
		// "A -> B" stores {causes, source:A, target:B}: B's ancestor is A,
		// reached by walking causes edges backward (this node as target).
		for _, rel := range e.doc.RelationshipsTo(cur.node.ID) {
			if !isWhyCausesEdge(rel.Type, cfg.includeEquivalent) {
				continue
			}
			enqueueAncestor(rel.Source, cur.depth, visited, pathCount, e.doc, &queue)
		}
		// "A <- B" stores {derives_from, source:A, target:B}, meaning A
		// derives from B: B's ancestor is reached forward (this node as
		// source).
		for _, rel := range e.doc.RelationshipsFrom(cur.node.ID) {
			if !isWhyDerivesEdge(rel.Type, cfg.includeEquivalent) {
				continue
			}
			enqueueAncestor(rel.Target, cur.depth, visited, pathCount, e.doc, &queue)
		}
	}

	hasMultiplePaths := false
	for _, c := range pathCount {
		if c > 1 {
			hasMultiplePaths = true
			break
		}
	}

	rootCause := target.ID
	deepest := -1
	for _, v := range order {
		if v.depth > deepest {
			deepest = v.depth
			rootCause = v.node.ID
		}
	}

	res := &WhyResult{RootCause: rootCause, HasMultiplePaths: hasMultiplePaths}

	if cfg.minimal {
		res.Format = FormatMinimal
		res.Chain = make([]string, 0, len(order)+1)
		for i := len(order) - 1; i >= 0; i-- {
			res.Chain = append(res.Chain, order[i].node.Content)
		}
		res.Chain = append(res.Chain, target.Content)
		res.RootCause = nodeContentOrID(e.doc, rootCause)
		return res, nil
	}

	res.Format = FormatChain
	res.Target = target.ID
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		res.CausalChain = append(res.CausalChain, AncestorStep{NodeID: v.node.ID, Content: v.node.Content, Depth: v.depth})
	}
	res.Metadata = map[string]any{
		"ancestor_count": len(order),
	}
	return res, nil
}

func isWhyCausesEdge(t ir.RelationshipType, includeEquivalent bool) bool {
	if t == ir.RelCauses {
		return true
	}
	return includeEquivalent && t == ir.RelEquivalent
}

func isWhyDerivesEdge(t ir.RelationshipType, includeEquivalent bool) bool {
	if t == ir.RelDerivesFrom {
		return true
	}
	return includeEquivalent && t == ir.RelEquivalent
}

func enqueueAncestor(id string, curDepth int, visited, pathCount map[string]int, doc *ir.Document, queue *[]traversalStep) {
	pathCount[id]++
	if _, seen := visited[id]; seen {
		return
	}
	ancestor := doc.Node(id)
	if ancestor == nil {
		return
	}
	visited[id] = curDepth + 1
	*queue = append(*queue, traversalStep{ancestor, curDepth + 1})
}

func nodeContentOrID(doc *ir.Document, id string) string {
	if n := doc.Node(id); n != nil {
		return n.Content
	}
	return id
}
