// Command flowscript is the thin CLI collaborator around the flowscript
// toolchain: argument parsing and file I/O only, no pipeline logic. Every
// subcommand reads its input through afs.Service, calls exactly one
// core/lint/query entry point, and marshals the result to JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/viant/flowscript/internal/flog"
)

var (
	verbose bool
	fs      = afs.New()
	logger  *zap.Logger
	stdout  = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "flowscript",
	Short: "Compile, lint, and query FlowScript thought graphs",
	Long: `flowscript turns indentation-sensitive FlowScript source into a
content-addressed IR, lints it for causal/structural issues, and answers
graph queries (why, what_if, tensions, blocked, alternatives) against it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := flog.NewCLILogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		flog.Set(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(compileCmd, lintCmd, queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "flowscript:", err)
		os.Exit(1)
	}
}
