package lint

import "github.com/viant/flowscript/ir"

// Graph is the shared, once-built index every Rule reads from: adjacency
// over non-feedback "causes" edges, a block-nesting depth map (built from
// Ext.Children only), and the orphan-reachability bookkeeping every
// structural rule needs.
type Graph struct {
	Doc *ir.Document

	// causesAdj is adjacency restricted to {type: causes, feedback: false},
	// the subgraph E005/W003 both operate over.
	causesAdj map[string][]string

	// referenced collects every node id that is a relationship endpoint, a
	// block's Ext child, or a node's hierarchical Children entry — anything
	// that keeps a node from being orphaned per E004.
	referenced map[string]bool

	// depth maps a node id to its block-nesting depth (0 for a node never
	// listed as another block's child).
	depth map[string]int
}

// NewGraph builds the shared index once from doc.
func NewGraph(doc *ir.Document) *Graph {
	g := &Graph{
		Doc:        doc,
		causesAdj:  make(map[string][]string),
		referenced: make(map[string]bool),
		depth:      make(map[string]int),
	}
	g.buildCausesAdjacency()
	g.buildReferenced()
	g.buildDepths()
	return g
}

func (g *Graph) buildCausesAdjacency() {
	for _, r := range g.Doc.Relationships {
		if r.Type != ir.RelCauses || r.Feedback {
			continue
		}
		g.causesAdj[r.Source] = append(g.causesAdj[r.Source], r.Target)
	}
}

func (g *Graph) buildReferenced() {
	for _, r := range g.Doc.Relationships {
		g.referenced[r.Source] = true
		g.referenced[r.Target] = true
	}
	for _, n := range g.Doc.Nodes {
		for _, c := range n.Children {
			g.referenced[c] = true
		}
		if n.Ext != nil {
			for _, c := range n.Ext.Children {
				g.referenced[c] = true
			}
		}
	}
	for _, s := range g.Doc.States {
		g.referenced[s.NodeID] = true
	}
}

// buildDepths computes, for every node, how many block ancestors it has —
// via a BFS from every root (a node that is never itself a child) over the
// Ext.Children block-containment edges.
func (g *Graph) buildDepths() {
	childOf := make(map[string]bool)
	for _, n := range g.Doc.Nodes {
		if n.Ext == nil {
			continue
		}
		for _, c := range n.Ext.Children {
			childOf[c] = true
		}
	}
	var visit func(id string, depth int, seen map[string]bool)
	visit = func(id string, depth int, seen map[string]bool) {
		if seen[id] {
			return
		}
		seen[id] = true
		if cur, ok := g.depth[id]; !ok || depth > cur {
			g.depth[id] = depth
		}
		n := g.Doc.Node(id)
		if n == nil || n.Ext == nil {
			return
		}
		for _, c := range n.Ext.Children {
			visit(c, depth+1, seen)
		}
	}
	for _, n := range g.Doc.Nodes {
		if childOf[n.ID] {
			continue
		}
		visit(n.ID, 0, make(map[string]bool))
	}
}

// Depth returns a node's block-nesting depth (0 if it is never a block
// child).
func (g *Graph) Depth(id string) int { return g.depth[id] }

// IsReferenced reports whether id is reachable via any relationship
// endpoint, block child list, hierarchical children, or state attachment.
func (g *Graph) IsReferenced(id string) bool { return g.referenced[id] }

// CausesSuccessors returns id's outgoing non-feedback causal edges.
func (g *Graph) CausesSuccessors(id string) []string { return g.causesAdj[id] }
