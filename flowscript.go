// Package flowscript is the toolchain's single-call convenience entry
// point: preprocess + parse, composed the way a caller that only wants a
// Document (not the two intermediate stages) should use them.
package flowscript

import (
	"github.com/viant/flowscript/ir"
	"github.com/viant/flowscript/parse"
	"github.com/viant/flowscript/preprocess"
)

// Option configures a Compile call.
type Option func(*config)

type config struct {
	sourceFile string
	indentSize int
	timestamp  string
}

// WithSourceFile sets the provenance source-file name attached to every
// node, relationship, and state in the resulting Document.
func WithSourceFile(name string) Option {
	return func(c *config) { c.sourceFile = name }
}

// WithIndentSize sets the preprocessor's advisory indent width.
func WithIndentSize(n int) Option {
	return func(c *config) { c.indentSize = n }
}

// WithTimestamp sets the parsed_at metadata stamp attached to the resulting
// Document. Compile never reads the clock itself; callers that need a real
// timestamp (cmd/flowscript) supply one explicitly.
func WithTimestamp(ts string) Option {
	return func(c *config) { c.timestamp = ts }
}

// Compile runs the full pipeline — indentation preprocessing, grammar
// parsing, and IR post-processing — over source and returns the resulting
// Document. It performs no I/O: source is caller-provided text.
func Compile(source string, opts ...Option) (*ir.Document, error) {
	cfg := config{sourceFile: "<source>", indentSize: 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	pre, err := preprocess.Preprocess(source, preprocess.WithIndentSize(cfg.indentSize))
	if err != nil {
		return nil, err
	}

	return parse.Parse(pre.Text, pre.LineMap,
		parse.WithSourceFile(cfg.sourceFile),
		parse.WithTimestamp(cfg.timestamp))
}
