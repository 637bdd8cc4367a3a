// Package main provides the pyforge command line: render, inspect, rewrite
// and compile Python sources through the pyforge node model.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/version"
)

// exitCodeCheckFailure is the exit code for failed checks (round trips,
// schema validation, host compilation).
const exitCodeCheckFailure = 2

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	version.InitBinaryVersion()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()

	// PersistentPostRunE is skipped when a command fails.
	if shutdownErr := a.shutdown(context.Background()); err == nil {
		err = shutdownErr
	}

	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		fmt.Fprintf(stderr, "Error: %v\n", exit.err)

		return exit.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	return 1
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pyforge",
		Short: "Build, rewrite and render Python syntax trees",
		Long: `pyforge parses Python source into a typed syntax tree, applies
pattern-based rewrite rules, and renders canonical source or code units
for the host interpreter.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./pyforge.yaml or $HOME/pyforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(
		renderCmd(a),
		dumpCmd(a),
		roundtripCmd(a),
		rewriteCmd(a),
		compileCmd(a),
		kindsCmd(),
		validateCmd(a),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pyforge %s\n", version.String())
		},
	}
}
