package flowscript

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/flowscript/ir"
	"github.com/viant/flowscript/preprocess"
)

func TestCompileSimpleChain(t *testing.T) {
	doc, err := Compile("A -> B -> C", WithSourceFile("chain.flow"))
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 3)
	assert.Len(t, doc.Relationships, 2)
	assert.Equal(t, "chain.flow", doc.Metadata.SourceFiles[0])
}

func TestCompileRoundTripsThroughJSON(t *testing.T) {
	doc, err := Compile("? strategy\n  || JWT tokens\n  || session tokens")
	require.NoError(t, err)

	var questionID string
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeQuestion {
			questionID = n.ID
		}
	}
	assert.NotEmpty(t, questionID)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	decoded, err := ir.DecodeDocument(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, decoded.Node(questionID))
	assert.Equal(t, ir.NodeQuestion, decoded.Node(questionID).Type)
}

func TestCompileIndentationErrorPropagates(t *testing.T) {
	_, err := Compile("\tA -> B")
	require.Error(t, err)
	var indentErr *preprocess.IndentationError
	assert.ErrorAs(t, err, &indentErr)
}
