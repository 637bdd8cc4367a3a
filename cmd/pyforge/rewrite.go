package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/mapping"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/match"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func rewriteCmd(a *app) *cobra.Command {
	var (
		rulesPath string
		showDiff  bool
		stats     bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite --rules rules.yaml [file|-]",
		Short: "Apply a rule file to a Python file",
		Long: `Apply the rules of a YAML or TOML rule file to every node of a Python
file, repeating on each node until no rule matches, and print the result.

Examples:
  pyforge rewrite --rules simplify.yaml script.py
  pyforge rewrite --rules simplify.toml --diff script.py`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleset, err := mapping.LoadRuleset(rulesPath)
			if err != nil {
				return err
			}

			src, label, err := a.readInput(args)
			if err != nil {
				return err
			}

			tr := match.NewTransformation(ruleset.WithMaxRounds(a.cfg.Rewrite.MaxRounds).WithLogger(a.logger))
			tr.Logger = a.logger
			tr.Tracer = a.providers.Tracer

			lang := pyast.NewLanguage(a.parser(), tr)
			lang.Mode = node.ModeExec
			lang.Render = a.renderOptions()

			start := time.Now()

			out, err := lang.Source(cmd.Context(), src)
			a.record(cmd.Context(), "rewrite", label, start, err)

			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}

			a.metrics.RecordRewrites(cmd.Context(), tr.Rewrites())

			writer := cmd.OutOrStdout()

			if showDiff {
				before, err := a.render(cmd.Context(), src, false)
				if err != nil {
					return fmt.Errorf("%s: %w", label, err)
				}

				fmt.Fprint(writer, pyast.DiffLines(before+"\n", out+"\n").String())
			} else {
				fmt.Fprintln(writer, out)
			}

			if stats {
				counts := tr.Rewrites()
				for _, name := range slices.Sorted(maps.Keys(counts)) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%6d  %s\n", counts[name], name)
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%6d  total\n", tr.Total())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rule file (.yaml, .yml or .toml)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a line diff against the canonical input")
	cmd.Flags().BoolVar(&stats, "stats", false, "print per-rule rewrite counts to stderr")

	_ = cmd.MarkFlagRequired("rules")

	return cmd
}
