package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeDigestDeduplication(t *testing.T) {
	a := NodeDigest(NodeStatement, "session tokens", nil)
	b := NodeDigest(NodeStatement, "session tokens", nil)
	assert.Equal(t, a, b, "identical {type, content, modifiers} must collapse to one id")

	c := NodeDigest(NodeStatement, "JWT tokens", nil)
	assert.NotEqual(t, a, c)

	d := NodeDigest(NodeStatement, "session tokens", []Modifier{ModifierUrgent})
	assert.NotEqual(t, a, d, "modifiers participate in node identity")
}

func TestRelationshipDigestAxisLabel(t *testing.T) {
	none := RelationshipDigest(RelTension, "a", "b", nil)
	empty := ""
	withEmpty := RelationshipDigest(RelTension, "a", "b", &empty)
	labeled := "speed vs quality"
	withLabel := RelationshipDigest(RelTension, "a", "b", &labeled)

	assert.Equal(t, none, withEmpty, "nil and empty-string axis labels hash identically")
	assert.NotEqual(t, none, withLabel)
}

func TestDocumentIndexes(t *testing.T) {
	n1 := &Node{ID: "n1", Type: NodeStatement, Content: "A"}
	n2 := &Node{ID: "n2", Type: NodeStatement, Content: "B"}
	rel := &Relationship{ID: "r1", Type: RelCauses, Source: "n1", Target: "n2"}
	st := &State{ID: "s1", Type: StateDecided, NodeID: "n2"}

	doc := NewDocument([]*Node{n1, n2}, []*Relationship{rel}, []*State{st})

	assert.Equal(t, n1, doc.Node("n1"))
	assert.Nil(t, doc.Node("missing"))
	assert.Equal(t, []*Relationship{rel}, doc.RelationshipsFrom("n1"))
	assert.Equal(t, []*Relationship{rel}, doc.RelationshipsTo("n2"))
	assert.Equal(t, st, doc.StateOf("n2"))
	assert.Nil(t, doc.StateOf("n1"))
}
