package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowscript/ir"
	"github.com/viant/flowscript/preprocess"
)

func compile(t *testing.T, src string) *ir.Document {
	t.Helper()
	pre, err := preprocess.Preprocess(src)
	require.NoError(t, err)
	doc, err := Parse(pre.Text, pre.LineMap, WithSourceFile("t.flow"))
	require.NoError(t, err)
	return doc
}

func TestParseSimpleCausalChain(t *testing.T) {
	doc := compile(t, "slow query -> add index -> faster reads")
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Relationships, 2)
	assert.Equal(t, ir.RelCauses, doc.Relationships[0].Type)
	assert.Equal(t, ir.RelCauses, doc.Relationships[1].Type)
	assert.Equal(t, doc.Relationships[0].Target, doc.Relationships[1].Source)
}

func TestParseQuestionWithAlternativesAndState(t *testing.T) {
	src := "? authentication strategy\n" +
		"  || JWT tokens\n" +
		"     -> stateless\n" +
		"  || session tokens\n" +
		"     -> instant revocation\n" +
		"[decided(rationale: \"security first\", on: \"2025-10-15\")] session tokens"
	doc := compile(t, src)

	var question *ir.Node
	var alts []*ir.Node
	var statements []*ir.Node
	for _, n := range doc.Nodes {
		switch n.Type {
		case ir.NodeQuestion:
			question = n
		case ir.NodeAlternative:
			alts = append(alts, n)
		case ir.NodeStatement:
			statements = append(statements, n)
		}
	}
	require.NotNil(t, question)
	require.Len(t, alts, 2)
	require.GreaterOrEqual(t, len(statements), 3) // stateless, instant revocation, session tokens

	altRels := doc.RelationshipsOfType(ir.RelAlternative)
	require.Len(t, altRels, 2)
	for _, r := range altRels {
		assert.Equal(t, question.ID, r.Source)
	}

	decided := doc.StatesOfType(ir.StateDecided)
	require.Len(t, decided, 1)

	var sessionStmt *ir.Node
	for _, n := range statements {
		if n.Content == "session tokens" {
			sessionStmt = n
		}
	}
	require.NotNil(t, sessionStmt)
	assert.Equal(t, sessionStmt.ID, decided[0].NodeID)
	assert.Equal(t, "security first", decided[0].Fields["rationale"])
}

func TestParseTensionWithAxis(t *testing.T) {
	doc := compile(t, "speed ><[quality vs velocity] thoroughness")
	rels := doc.RelationshipsOfType(ir.RelTension)
	require.Len(t, rels, 1)
	require.NotNil(t, rels[0].AxisLabel)
	assert.Equal(t, "quality vs velocity", *rels[0].AxisLabel)
}

func TestParseTensionWithoutAxis(t *testing.T) {
	doc := compile(t, "speed >< thoroughness")
	rels := doc.RelationshipsOfType(ir.RelTension)
	require.Len(t, rels, 1)
	assert.Nil(t, rels[0].AxisLabel)
}

func TestParseThoughtAndActionKeywords(t *testing.T) {
	doc := compile(t, "thought: maybe cache this\naction: add redis layer")
	var thought, action *ir.Node
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeThought {
			thought = n
		}
		if n.Type == ir.NodeAction {
			action = n
		}
	}
	require.NotNil(t, thought)
	require.NotNil(t, action)
	assert.Equal(t, "maybe cache this", thought.Content)
	assert.Equal(t, "add redis layer", action.Content)
}

func TestParseModifiers(t *testing.T) {
	doc := compile(t, "! critical bug -> *fix deployed")
	require.Len(t, doc.Nodes, 2)
	assert.True(t, doc.Nodes[0].HasModifier(ir.ModifierUrgent))
}

func TestParseDeduplicatesIdenticalStatements(t *testing.T) {
	doc := compile(t, "a -> b\nc -> b")
	var bCount int
	for _, n := range doc.Nodes {
		if n.Content == "b" {
			bCount++
		}
	}
	assert.Equal(t, 1, bCount, "identical statement content/type must collapse to one node")
}

func TestParseExplicitBlockEquivalence(t *testing.T) {
	doc := compile(t, "? q\n{|| a; || b}")
	alts := 0
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeAlternative {
			alts++
		}
	}
	assert.Equal(t, 2, alts)
}

func TestParseHierarchicalChildrenAttachToPrecedingStatement(t *testing.T) {
	src := "deploy service\n  run tests\n  check logs"
	pre, err := preprocess.Preprocess(src)
	require.NoError(t, err)
	doc, err := Parse(pre.Text, pre.LineMap, WithSourceFile("t.flow"))
	require.NoError(t, err)

	var deploy, runTests, checkLogs *ir.Node
	for _, n := range doc.Nodes {
		switch n.Content {
		case "deploy service":
			deploy = n
		case "run tests":
			runTests = n
		case "check logs":
			checkLogs = n
		}
	}
	require.NotNil(t, deploy)
	require.NotNil(t, runTests)
	require.NotNil(t, checkLogs)

	assert.Equal(t, []string{runTests.ID, checkLogs.ID}, deploy.Children)
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeBlock {
			assert.Empty(t, n.Children, "the block itself must not retain a self-copy of its children")
		}
	}
}

func TestParseSameLineContinuationAfterMarker(t *testing.T) {
	doc := compile(t, "? q -> y")

	var question, y *ir.Node
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeQuestion {
			question = n
		}
		if n.Content == "y" {
			y = n
		}
	}
	require.NotNil(t, question)
	require.Equal(t, "q", question.Content)
	require.NotNil(t, y)

	rels := doc.RelationshipsFrom(question.ID)
	require.Len(t, rels, 1)
	assert.Equal(t, ir.RelCauses, rels[0].Type)
	assert.Equal(t, y.ID, rels[0].Target)
}

func TestParseCompletion(t *testing.T) {
	doc := compile(t, "✓ migration finished")
	var completion *ir.Node
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeCompletion {
			completion = n
		}
	}
	require.NotNil(t, completion)
	assert.Equal(t, "migration finished", completion.Content)
}
