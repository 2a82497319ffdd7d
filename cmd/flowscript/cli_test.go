package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viant/flowscript/ir"
)

func TestRunCompileWritesIRFile(t *testing.T) {
	logger = zap.NewNop()
	dir := t.TempDir()

	src := filepath.Join(dir, "in.flow")
	require.NoError(t, os.WriteFile(src, []byte("A -> B"), 0644))

	out := filepath.Join(dir, "out.json")
	compileOutput = out
	defer func() { compileOutput = "" }()

	require.NoError(t, runCompile(&cobra.Command{}, []string{src}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	doc, err := ir.DecodeDocument(f)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.NotEmpty(t, data)
}

func TestRunLintFlagsTensionMissingAxis(t *testing.T) {
	logger = zap.NewNop()
	dir := t.TempDir()

	src := filepath.Join(dir, "in.flow")
	require.NoError(t, os.WriteFile(src, []byte("speed >< quality"), 0644))

	err := runLint(&cobra.Command{}, []string{src})
	require.Error(t, err)
}

func TestLooksLikeIR(t *testing.T) {
	assert.True(t, looksLikeIR([]byte(`{"version":"1.0","nodes":[]}`)))
	assert.False(t, looksLikeIR([]byte("A -> B")))
}

func TestRunQueryWhy(t *testing.T) {
	logger = zap.NewNop()
	dir := t.TempDir()

	src := filepath.Join(dir, "in.flow")
	require.NoError(t, os.WriteFile(src, []byte("A -> B -> C"), 0644))
	irPath := filepath.Join(dir, "ir.json")
	compileOutput = irPath
	defer func() { compileOutput = "" }()
	require.NoError(t, runCompile(&cobra.Command{}, []string{src}))

	f, err := os.Open(irPath)
	require.NoError(t, err)
	defer f.Close()
	doc, err := ir.DecodeDocument(f)
	require.NoError(t, err)

	var cID string
	for _, n := range doc.Nodes {
		if n.Content == "C" {
			cID = n.ID
		}
	}
	require.NotEmpty(t, cID)

	require.NoError(t, runQuery(&cobra.Command{}, []string{irPath, "why", cID}))
}
