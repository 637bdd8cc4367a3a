package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func renderCmd(a *app) *cobra.Command {
	var fromJSON bool

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Print the canonical source of a Python file",
		Long: `Parse a Python file (or a JSON raw tree with --json), finalize it and
print its canonical source.

Examples:
  pyforge render script.py
  cat script.py | pyforge render
  pyforge dump --format json script.py | pyforge render --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, label, err := a.readInput(args)
			if err != nil {
				return err
			}

			start := time.Now()

			out, err := a.render(cmd.Context(), src, fromJSON)
			a.record(cmd.Context(), "render", label, start, err)

			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)

			return nil
		},
	}

	cmd.Flags().BoolVar(&fromJSON, "json", false, "read a JSON raw tree instead of Python source")

	return cmd
}

func (a *app) render(ctx context.Context, src []byte, fromJSON bool) (string, error) {
	tree, err := a.tree(ctx, src, fromJSON)
	if err != nil {
		return "", err
	}

	return node.RenderWith(node.FinalizeNode(tree), a.renderOptions())
}

// tree parses Python source, or decodes a JSON raw tree.
func (a *app) tree(ctx context.Context, src []byte, fromJSON bool) (node.Node, error) {
	if !fromJSON {
		return a.parser().Parse(ctx, src)
	}

	doc, err := node.DecodeRaw(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	raw, ok := doc.(*node.RawNode)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not a node", node.ErrInvalidRawTree)
	}

	return node.WrapNode(raw)
}
