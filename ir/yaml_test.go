package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestDocumentYAMLGoldenFixture checks a Document's YAML encoding (its yaml
// struct tags) against a golden fixture of node and relationship fields, the
// golden-file convention the teacher's analyzer_test.go suite uses for
// expected-output fixtures.
func TestDocumentYAMLGoldenFixture(t *testing.T) {
	n1 := &Node{ID: "n1", Type: NodeStatement, Content: "A", Provenance: Provenance{LineNumber: 1}}
	n2 := &Node{ID: "n2", Type: NodeStatement, Content: "B", Provenance: Provenance{LineNumber: 2}}
	rel := &Relationship{ID: "r1", Type: RelCauses, Source: "n1", Target: "n2"}

	doc := NewDocument([]*Node{n1, n2}, []*Relationship{rel}, nil)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	const expect = `
nodes:
  - id: n1
    type: statement
    content: A
  - id: n2
    type: statement
    content: B
relationships:
  - id: r1
    type: causes
    source: n1
    target: n2
`
	var want struct {
		Nodes []struct {
			ID      string `yaml:"id"`
			Type    string `yaml:"type"`
			Content string `yaml:"content"`
		} `yaml:"nodes"`
		Relationships []struct {
			ID     string `yaml:"id"`
			Type   string `yaml:"type"`
			Source string `yaml:"source"`
			Target string `yaml:"target"`
		} `yaml:"relationships"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(expect), &want))

	var got struct {
		Nodes []struct {
			ID      string `yaml:"id"`
			Type    string `yaml:"type"`
			Content string `yaml:"content"`
		} `yaml:"nodes"`
		Relationships []struct {
			ID     string `yaml:"id"`
			Type   string `yaml:"type"`
			Source string `yaml:"source"`
			Target string `yaml:"target"`
		} `yaml:"relationships"`
	}
	require.NoError(t, yaml.Unmarshal(out, &got))

	assert.Equal(t, want.Nodes, got.Nodes)
	assert.Equal(t, want.Relationships, got.Relationships)
}
