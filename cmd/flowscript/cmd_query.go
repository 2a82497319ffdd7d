package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viant/flowscript/internal/flog"
	"github.com/viant/flowscript/ir"
	"github.com/viant/flowscript/query"
)

var (
	queryFormat  string
	queryGroupBy string
	queryAxis    []string
	querySince   string
)

var queryCmd = &cobra.Command{
	Use:   "query <ir> <op> [node-id]",
	Short: "Run a graph query against a compiled IR document",
	Long: `Supported ops: why, what_if, tensions, blocked, alternatives.

why, what_if, and alternatives take a node-id (or question-id) as a third
argument; tensions and blocked operate over the whole document.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryFormat, "format", "", "output format (why: minimal; what_if: summary; alternatives: comparison|tree|simple)")
	queryCmd.Flags().StringVar(&queryGroupBy, "group-by", "axis", "tensions grouping: axis|node|none")
	queryCmd.Flags().StringSliceVar(&queryAxis, "axis", nil, "tensions: restrict to these axis labels")
	queryCmd.Flags().StringVar(&querySince, "since", "", "blocked: only blockers on or after this date (YYYY-MM-DD)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	irPath, op := args[0], args[1]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	content, err := fs.DownloadWithURL(ctx, irPath)
	if err != nil {
		return err
	}
	doc, err := ir.DecodeDocument(bytes.NewReader(content))
	if err != nil {
		return errors.Wrap(err, "decoding IR document")
	}
	eng := query.New(doc)
	flog.L().Debug("running query", zap.String("op", op), zap.Int("nodes", len(doc.Nodes)))

	var result interface{}
	switch op {
	case "why":
		result, err = runWhy(eng, args)
	case "what_if":
		result, err = runWhatIf(eng, args)
	case "tensions":
		result, err = runTensions(eng)
	case "blocked":
		result, err = runBlocked(eng)
	case "alternatives":
		result, err = runAlternatives(eng, args)
	default:
		return fmt.Errorf("unknown query op %q", op)
	}
	if err != nil {
		return err
	}
	return writeJSON(ctx, "", result)
}

func nodeArg(args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("this op requires a node-id argument")
	}
	return args[2], nil
}

func runWhy(eng *query.Engine, args []string) (*query.WhyResult, error) {
	id, err := nodeArg(args)
	if err != nil {
		return nil, err
	}
	var opts []query.WhyOption
	if queryFormat == "minimal" {
		opts = append(opts, query.WithWhyMinimal(true))
	}
	return eng.Why(id, opts...)
}

func runWhatIf(eng *query.Engine, args []string) (*query.WhatIfResult, error) {
	id, err := nodeArg(args)
	if err != nil {
		return nil, err
	}
	var opts []query.WhatIfOption
	if queryFormat == "summary" {
		opts = append(opts, query.WithWhatIfSummary(true))
	}
	return eng.WhatIf(id, opts...)
}

func runTensions(eng *query.Engine) (*query.TensionsResult, error) {
	opts := []query.TensionsOption{query.WithTensionsGroupBy(query.GroupBy(queryGroupBy))}
	if len(queryAxis) > 0 {
		opts = append(opts, query.WithTensionsFilterByAxis(queryAxis...))
	}
	return eng.Tensions(opts...)
}

func runBlocked(eng *query.Engine) (*query.BlockedResult, error) {
	var opts []query.BlockedOption
	if querySince != "" {
		since, err := time.Parse("2006-01-02", querySince)
		if err != nil {
			return nil, errors.Wrap(err, "parsing --since")
		}
		opts = append(opts, query.WithBlockedSince(since))
	}
	return eng.Blocked(opts...)
}

func runAlternatives(eng *query.Engine, args []string) (*query.AlternativesResult, error) {
	id, err := nodeArg(args)
	if err != nil {
		return nil, err
	}
	var opts []query.AlternativesOption
	if queryFormat != "" {
		opts = append(opts, query.WithAlternativesFormat(query.AlternativesFormat(queryFormat)))
	}
	return eng.Alternatives(id, opts...)
}
