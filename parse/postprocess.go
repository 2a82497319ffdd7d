package parse

import (
	"github.com/viant/flowscript/ir"
)

// postProcess runs the fix-up passes that only make sense once the full
// node/relationship/state list is available: state attachment (a state
// marker is positional, not structural, so it cannot be resolved while its
// target node is still being parsed), question/alternative linking, and
// hierarchical children.
//
// Deduplication itself is not a separate pass here: makeNode folds identical
// {type, content, modifiers} into one node at construction time via id
// equality, so by the time postProcess runs there is no superseded node
// pointer left to rewrite onto a canonical one.
func postProcess(doc *ir.Document) {
	attachStates(doc)
	linkAlternatives(doc)
	propagateBlockChildren(doc)
	doc.BuildIndexes()
}

// attachStates implements "a state is attached to the first node, in source
// order, whose line number is greater than or equal to the state's own line
// number." Nodes still of type block are skipped.
func attachStates(doc *ir.Document) {
	for _, st := range doc.States {
		for _, n := range doc.Nodes {
			if n.Type == ir.NodeBlock {
				continue
			}
			if n.Provenance.LineNumber >= st.Provenance.LineNumber {
				st.NodeID = n.ID
				st.ID = ir.StateDigest(st.Type, n.ID, st.Fields)
				break
			}
		}
	}
}

// linkAlternatives implements question/alternative linking: every
// alternative node encountered after a question and before the next question
// becomes one of that question's children, joined by an explicit
// "alternative" relationship.
func linkAlternatives(doc *ir.Document) {
	var current *ir.Node
	for _, n := range doc.Nodes {
		switch n.Type {
		case ir.NodeQuestion:
			current = n
		case ir.NodeAlternative:
			if current == nil {
				continue
			}
			current.Children = append(current.Children, n.ID)
			doc.Relationships = append(doc.Relationships, &ir.Relationship{
				ID:     ir.RelationshipDigest(ir.RelAlternative, current.ID, n.ID, nil),
				Type:   ir.RelAlternative,
				Source: current.ID,
				Target: n.ID,
				Provenance: ir.Provenance{
					SourceFile: n.Provenance.SourceFile,
					LineNumber: n.Provenance.LineNumber,
					Timestamp:  n.Provenance.Timestamp,
				},
			})
		}
	}
}

// propagateBlockChildren implements "hierarchical children": for each block
// node whose ext.children include at least one non-block element, it locates
// the node immediately preceding the first such non-block child in source
// order and, provided that predecessor is not itself a block, appends every
// non-block child id onto the predecessor's own Children field.
//
// A block's own node sits, in doc.Nodes append order, directly before the
// first non-block child it opens onto (the synthetic '{' the preprocessor
// prepends shares its source line with that child), so walking back from the
// first non-block child has to skip the block node itself to reach the node
// that actually precedes it in the source text. In
//
//	deploy service
//	  run tests
//	  check logs
//
// "run tests"/"check logs" are the implicit block's non-block children, and
// the node preceding that block is "deploy service" — the children end up
// attached there, not on the block.
func propagateBlockChildren(doc *ir.Document) {
	index := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n.ID] = i
	}

	for _, b := range doc.Nodes {
		if b.Type != ir.NodeBlock || b.Ext == nil {
			continue
		}

		var nonBlockIDs []string
		firstIdx := -1
		for _, id := range b.Ext.Children {
			child := doc.Node(id)
			if child == nil || child.Type == ir.NodeBlock {
				continue
			}
			if firstIdx == -1 {
				firstIdx = index[id]
			}
			nonBlockIDs = append(nonBlockIDs, id)
		}
		if len(nonBlockIDs) == 0 {
			continue
		}

		predIdx := firstIdx - 1
		for predIdx >= 0 && doc.Nodes[predIdx].ID == b.ID {
			predIdx--
		}
		if predIdx < 0 {
			continue
		}
		predecessor := doc.Nodes[predIdx]
		if predecessor.Type == ir.NodeBlock {
			continue
		}
		predecessor.Children = append(predecessor.Children, nonBlockIDs...)
	}
}
