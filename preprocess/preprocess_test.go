package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessSimpleIndent(t *testing.T) {
	src := "? q\n  || a\n  || b"
	res, err := Preprocess(src)
	require.NoError(t, err)
	assert.Equal(t, "? q\n{  || a\n  || b\n}", res.Text)
	// lines: "? q" -> 1, "{  || a" -> 2 (the { shares the content line), "  || b" -> 3, final "}" -> last non-blank (3)
	assert.Equal(t, []int{1, 2, 3, 3}, res.LineMap)
}

func TestPreprocessExplicitEquivalence(t *testing.T) {
	src := "? q\n{|| a; || b}"
	res, err := Preprocess(src)
	require.NoError(t, err)
	assert.Equal(t, "? q\n{|| a; || b}", res.Text)
}

func TestPreprocessDedentMultipleLevels(t *testing.T) {
	src := "a\n  b\n    c\nd"
	res, err := Preprocess(src)
	require.NoError(t, err)
	assert.Equal(t, "a\n{  b\n{    c\n}\n}\nd", res.Text)
}

func TestPreprocessTabRejected(t *testing.T) {
	src := "a\n\tb"
	_, err := Preprocess(src)
	require.Error(t, err)
	var indentErr *IndentationError
	require.ErrorAs(t, err, &indentErr)
	assert.Equal(t, 2, indentErr.Line)
}

func TestPreprocessLine1IndentRejected(t *testing.T) {
	_, err := Preprocess("  a")
	require.Error(t, err)
	var indentErr *IndentationError
	require.ErrorAs(t, err, &indentErr)
	assert.Equal(t, 1, indentErr.Line)
}

func TestPreprocessInvalidDedent(t *testing.T) {
	src := "a\n    b\n  c"
	_, err := Preprocess(src)
	require.Error(t, err)
	var indentErr *IndentationError
	require.ErrorAs(t, err, &indentErr)
	assert.Equal(t, 3, indentErr.Line)
}

func TestPreprocessBlankLinesPassThrough(t *testing.T) {
	src := "a\n\n  b"
	res, err := Preprocess(src)
	require.NoError(t, err)
	assert.Equal(t, "a\n\n{  b\n}", res.Text)
}

func TestPreprocessEmptySource(t *testing.T) {
	res, err := Preprocess("")
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
	assert.Empty(t, res.LineMap)
}
