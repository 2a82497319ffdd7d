package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viant/flowscript"
	"github.com/viant/flowscript/internal/flog"
	"github.com/viant/flowscript/ir"
	"github.com/viant/flowscript/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint <in|ir>",
	Short: "Lint FlowScript source or a compiled IR document",
	Long: `lint accepts either raw FlowScript source (compiled in-process before
linting) or a previously compiled IR JSON file. It always exits non-zero when
any diagnostic has error severity.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	in := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := loadDocument(ctx, in)
	if err != nil {
		return err
	}

	diags := lint.Lint(doc)
	flog.L().Debug("lint complete", zap.Int("diagnostics", len(diags)), zap.Int("errors", countErrors(diags)))

	if err := writeJSON(ctx, "", diags); err != nil {
		return err
	}
	if lint.HasErrors(diags) {
		return fmt.Errorf("lint found %d diagnostic(s) with error severity", countErrors(diags))
	}
	return nil
}

// loadDocument reads in and returns its parsed Document, trying the faster
// and more common cases first: a compiled IR JSON file, falling back to raw
// FlowScript source compiled in-process.
func loadDocument(ctx context.Context, in string) (*ir.Document, error) {
	content, err := fs.DownloadWithURL(ctx, in)
	if err != nil {
		return nil, err
	}
	if looksLikeIR(content) {
		return ir.DecodeDocument(bytes.NewReader(content))
	}
	return flowscript.Compile(string(content), flowscript.WithSourceFile(in))
}

// looksLikeIR is a cheap structural probe: IR documents are JSON objects
// carrying a top-level "version" key, which FlowScript source text never
// happens to parse as.
func looksLikeIR(content []byte) bool {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return false
	}
	return probe.Version != ""
}

func countErrors(diags []lint.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == lint.SeverityError {
			n++
		}
	}
	return n
}
