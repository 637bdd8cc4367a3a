package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/spec"
)

func validateCmd(a *app) *cobra.Command {
	var (
		schemaPath        string
		colorize, nocolor bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a JSON raw tree against the raw tree schema",
		Long: `Validate a JSON raw tree (as printed by "pyforge dump --format json")
against the embedded raw tree schema.

Examples:
  pyforge validate tree.json
  pyforge validate - < tree.json
  pyforge validate --schema custom-schema.json tree.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			} else if colorize {
				color.NoColor = false //nolint:reassign // intentional override of library global
			}

			return a.runValidate(cmd.OutOrStdout(), args[0], schemaPath)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a JSON schema (default: embedded raw tree schema)")
	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func (a *app) runValidate(out io.Writer, inputPath, schemaPath string) error {
	validator, err := spec.NewValidator(schemaPath)
	if err != nil {
		return &exitError{code: exitCodeCheckFailure, err: err}
	}

	reader, label, err := a.openInput(inputPath)
	if err != nil {
		return &exitError{code: exitCodeCheckFailure, err: err}
	}

	defer reader.Close()

	report, err := validator.Validate(reader)
	if err != nil {
		return &exitError{code: exitCodeCheckFailure, err: fmt.Errorf("%s: %w", label, err)}
	}

	if report.Valid() {
		if !a.quiet {
			color.New(color.FgGreen).Fprintf(out, "Raw tree is valid (%s)\n", label)
			color.New(color.FgGreen).Fprintf(out, "  Nodes: %d, compliance: 100%%\n", report.Nodes)
		}

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "Raw tree validation failed (%s)\n", label)
	color.New(color.FgYellow).Fprintf(out, "  Compliance: %d%%\n", report.Compliance())

	fmt.Fprintf(out, "\nErrors:\n")

	for _, violation := range report.Violations {
		if violation.Actual != "" {
			color.New(color.FgRed).Fprintf(out, "  - %s: %s (got %q)\n", violation.Field, violation.Description, violation.Actual)
		} else {
			color.New(color.FgRed).Fprintf(out, "  - %s: %s\n", violation.Field, violation.Description)
		}
	}

	if hints := report.Hints(); len(hints) > 0 {
		fmt.Fprintf(out, "\nRecommendations:\n")

		for _, hint := range hints {
			color.New(color.FgCyan).Fprintf(out, "  - %s\n", hint)
		}
	}

	return &exitError{code: exitCodeCheckFailure, err: report.Err()}
}

// openInput opens path, or stdin for "-".
func (a *app) openInput(path string) (io.ReadCloser, string, error) {
	if path == stdinPath {
		return io.NopCloser(a.stdin), "stdin", nil
	}

	resolved, err := resolveUserFilePath(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}

	return file, path, nil
}
