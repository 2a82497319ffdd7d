// Package ir defines FlowScript's intermediate representation: the immutable
// graph of Nodes, Relationships, and States produced by the parser, read by
// the linter and the query engine, and serialized as the toolchain's wire
// format.
package ir

// NodeType enumerates the kinds of atomic thought unit FlowScript can
// express.
type NodeType string

const (
	NodeStatement   NodeType = "statement"
	NodeQuestion    NodeType = "question"
	NodeThought     NodeType = "thought"
	NodeAction      NodeType = "action"
	NodeCompletion  NodeType = "completion"
	NodeAlternative NodeType = "alternative"
	NodeBlock       NodeType = "block"
)

// Modifier is a prefix marker decorating a node's emphasis or confidence.
type Modifier string

const (
	ModifierUrgent        Modifier = "urgent"
	ModifierStrongPositive Modifier = "strong_positive"
	ModifierHighConfidence Modifier = "high_confidence"
	ModifierLowConfidence  Modifier = "low_confidence"
)

// RelationshipType enumerates the kinds of directed edge between nodes.
type RelationshipType string

const (
	RelCauses        RelationshipType = "causes"
	RelDerivesFrom    RelationshipType = "derives_from"
	RelBidirectional RelationshipType = "bidirectional"
	RelTemporal      RelationshipType = "temporal"
	RelTension       RelationshipType = "tension"
	RelAlternative   RelationshipType = "alternative"
	RelEquivalent    RelationshipType = "equivalent"
	RelNotEquivalent RelationshipType = "not_equivalent"
)

// StateType enumerates the lifecycle annotations a node can carry.
type StateType string

const (
	StateDecided   StateType = "decided"
	StateExploring StateType = "exploring"
	StateBlocked   StateType = "blocked"
	StateParking   StateType = "parking"
)

// Provenance ties an IR entity back to the original source location it was
// parsed from. LineNumber always refers to an original-source line, never a
// preprocessor-synthesized one (invariant I6).
type Provenance struct {
	SourceFile string `json:"source_file" yaml:"sourceFile"`
	LineNumber int    `json:"line_number" yaml:"lineNumber"`
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
}

// Ext carries block-only fields that do not apply to every node type: a
// block's inline child node list (before hierarchical-children processing
// folds relevant ids into Node.Children) and any modifiers recorded on the
// block itself.
type Ext struct {
	Children  []string `json:"children,omitempty" yaml:"children,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// Node is the atomic unit of thought: a statement, question, thought,
// action, completion, alternative, or structural block.
type Node struct {
	ID         string     `json:"id" yaml:"id"`
	Type       NodeType   `json:"type" yaml:"type"`
	Content    string     `json:"content" yaml:"content"`
	Modifiers  []Modifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Children   []string   `json:"children,omitempty" yaml:"children,omitempty"`
	Ext        *Ext       `json:"ext,omitempty" yaml:"ext,omitempty"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// HasModifier reports whether m is present on the node.
func (n *Node) HasModifier(m Modifier) bool {
	for _, have := range n.Modifiers {
		if have == m {
			return true
		}
	}
	return false
}

// Relationship is a directed edge between two nodes.
type Relationship struct {
	ID         string           `json:"id" yaml:"id"`
	Type       RelationshipType `json:"type" yaml:"type"`
	Source     string           `json:"source" yaml:"source"`
	Target     string           `json:"target" yaml:"target"`
	AxisLabel  *string          `json:"axis_label,omitempty" yaml:"axisLabel,omitempty"`
	Feedback   bool             `json:"feedback" yaml:"feedback"`
	Provenance Provenance       `json:"provenance" yaml:"provenance"`
}

// State is a lifecycle annotation attached to a single node.
type State struct {
	ID         string            `json:"id" yaml:"id"`
	Type       StateType         `json:"type" yaml:"type"`
	NodeID     string            `json:"node_id" yaml:"nodeId"`
	Fields     map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Provenance Provenance        `json:"provenance" yaml:"provenance"`
}

// Invariants records which IR-wide guarantees have been asserted. Nothing in
// this module sets these fields: the parser leaves them all false, and
// lint.Lint returns diagnostics without writing them back into the Document.
type Invariants struct {
	CausalAcyclic     bool `json:"causal_acyclic" yaml:"causalAcyclic"`
	AllNodesReachable bool `json:"all_nodes_reachable" yaml:"allNodesReachable"`
	TensionAxesLabeled bool `json:"tension_axes_labeled" yaml:"tensionAxesLabeled"`
	StateFieldsPresent bool `json:"state_fields_present" yaml:"stateFieldsPresent"`
}

// Metadata records compile-time bookkeeping about how a Document was
// produced.
type Metadata struct {
	SourceFiles []string `json:"source_files" yaml:"sourceFiles"`
	ParsedAt    string   `json:"parsed_at" yaml:"parsedAt"`
	Parser      string   `json:"parser" yaml:"parser"`
}
