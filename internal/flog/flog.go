// Package flog is FlowScript's thin logging wrapper: a no-op *zap.Logger by
// default (the toolchain's packages are libraries first, and a library must
// never write to stderr unless a caller opted in), promoted to a real
// production logger by cmd/flowscript at startup.
package flog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// Set installs l as the package-wide logger. cmd/flowscript calls this once
// at startup; library code never calls it.
func Set(l *zap.Logger) {
	if l != nil {
		global = l
	}
}

// L returns the current package-wide logger.
func L() *zap.Logger { return global }

// NewCLILogger builds a production-style logger for cmd/flowscript, with the
// level raised to debug when verbose is set.
func NewCLILogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
