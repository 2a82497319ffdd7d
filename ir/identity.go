package ir

import "github.com/viant/flowscript/hash"

// nodeDigestKeys is the sorted-key value hashed for every node id. Field
// names are fixed so unrelated structural changes to Node (e.g. adding a
// Children slice during post-processing) never perturb an id that was
// already assigned at parse time (invariant I1).
type nodeDigestKeys struct {
	Type      string   `json:"type"`
	Content   string   `json:"content"`
	Modifiers []string `json:"modifiers"`
}

// NodeDigest computes the content-hash identity of a node from its defining
// fields, per §3.1/§4.1: {type, content, modifiers}.
func NodeDigest(t NodeType, content string, modifiers []Modifier) string {
	mods := make([]string, len(modifiers))
	for i, m := range modifiers {
		mods[i] = string(m)
	}
	return hash.Canonical(nodeDigestKeys{Type: string(t), Content: content, Modifiers: mods})
}

// NodeFingerprint is the cheap pre-digest used by the parser's dedup bucket;
// see hash.Fingerprint.
func NodeFingerprint(t NodeType, content string, modifiers []Modifier) uint64 {
	mods := make([]string, len(modifiers))
	for i, m := range modifiers {
		mods[i] = string(m)
	}
	return hash.Fingerprint(nodeDigestKeys{Type: string(t), Content: content, Modifiers: mods})
}

type relationshipDigestKeys struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	AxisLabel string `json:"axis_label"`
}

// RelationshipDigest computes the content-hash identity of a relationship:
// {type, source, target, axis_label}.
func RelationshipDigest(t RelationshipType, source, target string, axisLabel *string) string {
	axis := ""
	if axisLabel != nil {
		axis = *axisLabel
	}
	return hash.Canonical(relationshipDigestKeys{Type: string(t), Source: source, Target: target, AxisLabel: axis})
}

type stateDigestKeys struct {
	Type   string            `json:"type"`
	NodeID string            `json:"node_id"`
	Fields map[string]string `json:"fields"`
}

// StateDigest computes the content-hash identity of a state.
func StateDigest(t StateType, nodeID string, fields map[string]string) string {
	return hash.Canonical(stateDigestKeys{Type: string(t), NodeID: nodeID, Fields: fields})
}
