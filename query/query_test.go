package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowscript/ir"
	"github.com/viant/flowscript/parse"
	"github.com/viant/flowscript/preprocess"
)

func compile(t *testing.T, src string) *ir.Document {
	t.Helper()
	pre, err := preprocess.Preprocess(src)
	require.NoError(t, err)
	doc, err := parse.Parse(pre.Text, pre.LineMap)
	require.NoError(t, err)
	return doc
}

func TestWhyCausalChain(t *testing.T) {
	doc := compile(t, "A -> B -> C")
	eng := New(doc)

	var cID string
	for _, n := range doc.Nodes {
		if n.Content == "C" {
			cID = n.ID
		}
	}
	require.NotEmpty(t, cID)

	res, err := eng.Why(cID)
	require.NoError(t, err)
	require.Len(t, res.CausalChain, 2)
	assert.Equal(t, "A", res.CausalChain[0].Content)
	assert.Equal(t, "B", res.CausalChain[1].Content)
	rootNode := doc.Node(res.RootCause)
	require.NotNil(t, rootNode)
	assert.Equal(t, "A", rootNode.Content)
}

func TestWhatIfDirectIndirect(t *testing.T) {
	doc := compile(t, "A -> B -> C")
	eng := New(doc)

	var aID string
	for _, n := range doc.Nodes {
		if n.Content == "A" {
			aID = n.ID
		}
	}
	res, err := eng.WhatIf(aID)
	require.NoError(t, err)
	require.Len(t, res.Direct, 1)
	assert.Equal(t, "B", res.Direct[0].Content)
	require.Len(t, res.Indirect, 1)
	assert.Equal(t, "C", res.Indirect[0].Content)
}

func TestWhyFormatDiscriminator(t *testing.T) {
	doc := compile(t, "A -> B -> C")
	eng := New(doc)

	var cID string
	for _, n := range doc.Nodes {
		if n.Content == "C" {
			cID = n.ID
		}
	}

	full, err := eng.Why(cID)
	require.NoError(t, err)
	assert.Equal(t, FormatChain, full.Format)

	minimal, err := eng.Why(cID, WithWhyMinimal(true))
	require.NoError(t, err)
	assert.Equal(t, FormatMinimal, minimal.Format)
	assert.Equal(t, []string{"A", "B", "C"}, minimal.Chain)
	assert.Empty(t, minimal.Target)
	assert.Empty(t, minimal.CausalChain)
}

func TestWhatIfSummaryOmitsFullShape(t *testing.T) {
	doc := compile(t, "A -> B\nB ><[speed vs safety] C")
	eng := New(doc)

	var aID string
	for _, n := range doc.Nodes {
		if n.Content == "A" {
			aID = n.ID
		}
	}

	full, err := eng.WhatIf(aID)
	require.NoError(t, err)
	assert.Equal(t, FormatFull, full.Format)
	require.NotEmpty(t, full.ImpactTree)

	summary, err := eng.WhatIf(aID, WithWhatIfSummary(true))
	require.NoError(t, err)
	assert.Equal(t, FormatSummary, summary.Format)
	assert.Empty(t, summary.Direct)
	assert.Empty(t, summary.Indirect)
	assert.Empty(t, summary.ImpactTree)
	assert.Empty(t, summary.TensionsInImpactZone)
	assert.NotEmpty(t, summary.Risks)
	assert.NotEmpty(t, summary.KeyTradeoff)
}

func TestWhyNodeNotFound(t *testing.T) {
	doc := compile(t, "A -> B")
	eng := New(doc)
	_, err := eng.Why("missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestAlternativesWrongType(t *testing.T) {
	doc := compile(t, "A -> B")
	eng := New(doc)
	_, err := eng.Alternatives(doc.Nodes[0].ID)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestAlternativesDecidedFlow(t *testing.T) {
	src := "? authentication strategy\n" +
		"  || JWT tokens\n" +
		"  || session tokens\n" +
		"[decided(rationale: \"security first\", on: \"2025-10-15\")] session tokens"
	doc := compile(t, src)
	eng := New(doc)

	var questionID string
	for _, n := range doc.Nodes {
		if n.Type == ir.NodeQuestion {
			questionID = n.ID
		}
	}
	require.NotEmpty(t, questionID)

	res, err := eng.Alternatives(questionID)
	require.NoError(t, err)
	require.NotNil(t, res.DecisionSummary)
	assert.Equal(t, "session tokens", res.DecisionSummary.Chosen)
	assert.Equal(t, []string{"JWT tokens"}, res.DecisionSummary.Rejected)
	assert.Equal(t, "security first", res.DecisionSummary.Rationale)
}

func TestTensionsGroupByAxis(t *testing.T) {
	doc := compile(t, "speed ><[quality vs velocity] thoroughness")
	eng := New(doc)
	res, err := eng.Tensions()
	require.NoError(t, err)
	require.Contains(t, res.TensionsByAxis, "quality vs velocity")
	assert.Equal(t, 1, res.Metadata["total_tensions"])
}

func TestBlockedReportsDaysBlocked(t *testing.T) {
	src := "[blocked(reason: \"waiting on vendor\", since: \"2020-01-01\")] vendor API"
	doc := compile(t, src)
	eng := New(doc)
	res, err := eng.Blocked()
	require.NoError(t, err)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, "waiting on vendor", res.Blockers[0].Reason)
	assert.Greater(t, res.Blockers[0].DaysBlocked, 0)
}
