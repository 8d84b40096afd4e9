package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gremlin-hq/polyglot/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// skipSetup marks commands that run without configuration or telemetry.
const skipSetup = "polyglot/skip-setup"

var rootCmd = &cobra.Command{
	Use:   "polyglot",
	Short: "Polyglot - multi-target Gremlin translator",
	Long: `Polyglot renders Gremlin traversals into the source text of the Gremlin
language variants: canonical Gremlin, Groovy, Java, JavaScript, Python and
Go. It can also produce an anonymized form with literals replaced by
placeholders.

Traversals are read from YAML or JSON tree documents. Strategy specifications
inside a traversal are checked against the strategy registry.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] != "" {
			return nil
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		env = a
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	return execute(ctx, os.Args[1:])
}

func execute(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if env != nil {
		if cerr := env.close(); cerr != nil && err == nil {
			err = cerr
		}
		env = nil
	}
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
