package lint

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

func codes(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestLintTensionMissingAxis(t *testing.T) {
	doc := compile(t, "speed >< quality")
	diags := Lint(doc)
	assert.Contains(t, codes(diags), "E001")
}

func TestLintTensionWithAxisClean(t *testing.T) {
	doc := compile(t, "speed ><[tradeoff] quality")
	diags := Lint(doc)
	assert.NotContains(t, codes(diags), "E001")
}

func TestLintCausalCycleDetected(t *testing.T) {
	doc := compile(t, "A -> B\nB -> C\nC -> A")
	diags := Lint(doc)
	assert.Contains(t, codes(diags), "E005")
}

func TestLintBidirectionalEscapesCycle(t *testing.T) {
	doc := compile(t, "A <-> B\nB -> C")
	diags := Lint(doc)
	assert.NotContains(t, codes(diags), "E005")
}

func TestLintAlternativesWithoutClosure(t *testing.T) {
	doc := compile(t, "? q\n{|| a\n|| b}")
	diags := Lint(doc)
	assert.Contains(t, codes(diags), "E006")
}

func TestLintHybridDecisionAccepted(t *testing.T) {
	src := "? q\n{|| a\n|| b\n|| c}\n" +
		"[decided(rationale: \"mix\", on: \"2025-01-01\")] a combination of approaches"
	doc := compile(t, src)
	diags := Lint(doc)
	assert.NotContains(t, codes(diags), "E006")
}

func TestLintDecidedMissingFields(t *testing.T) {
	src := "? q\n{|| a\n|| b}\n[decided(rationale: \"because\")] a"
	doc := compile(t, src)
	diags := Lint(doc)
	assert.Contains(t, codes(diags), "E002")
}

func TestHasErrors(t *testing.T) {
	assert.True(t, HasErrors([]Diagnostic{{Code: "E001", Severity: SeverityError}}))
	assert.False(t, HasErrors([]Diagnostic{{Code: "W001", Severity: SeverityWarning}}))
	assert.False(t, HasErrors(nil))
}
