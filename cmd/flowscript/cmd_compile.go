package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viant/flowscript"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile <in>",
	Short: "Compile FlowScript source into IR JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "write IR JSON here instead of stdout")
}

func runCompile(cmd *cobra.Command, args []string) error {
	in := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Debug("compiling", zap.String("source", in))
	source, err := readSource(ctx, in)
	if err != nil {
		return err
	}

	doc, err := flowscript.Compile(source,
		flowscript.WithSourceFile(in),
		flowscript.WithTimestamp(time.Now().UTC().Format(time.RFC3339)))
	if err != nil {
		return err
	}

	return writeJSON(ctx, compileOutput, doc)
}

func readSource(ctx context.Context, path string) (string, error) {
	content, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func writeJSON(ctx context.Context, out string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if out == "" {
		_, err := stdout.Write(data)
		return err
	}
	return fs.Upload(ctx, out, os.FileMode(0644), bytes.NewReader(data))
}
