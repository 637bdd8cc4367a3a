package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Dump formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ErrUnsupportedFormat reports an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported format")

func dumpCmd(a *app) *cobra.Command {
	var (
		format string
		depth  int
	)

	cmd := &cobra.Command{
		Use:   "dump [file|-]",
		Short: "Print the syntax tree of a Python file",
		Long: `Print the finalized syntax tree of a Python file.

The text format mirrors Python's ast.dump and stops at --depth levels of
nesting (display.max_depth by default, -1 for the whole tree). The json and
yaml formats print the complete raw tree with positions.

Examples:
  pyforge dump script.py
  pyforge dump --depth -1 script.py
  pyforge dump --format yaml script.py`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("depth") {
				depth = a.cfg.Display.MaxDepth
			}

			src, label, err := a.readInput(args)
			if err != nil {
				return err
			}

			start := time.Now()

			module, err := a.parser().Parse(cmd.Context(), src)
			if err == nil {
				err = writeDump(cmd.OutOrStdout(), node.FinalizeNode(module), format, depth)
			}

			a.record(cmd.Context(), "dump", label, start, err)

			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")
	cmd.Flags().IntVarP(&depth, "depth", "d", node.DefaultDumpDepth, "nesting depth for text output, -1 for all")

	return cmd
}

func writeDump(writer io.Writer, tree node.Node, format string, depth int) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(writer, node.DumpDepth(tree, depth))

		return err
	case formatJSON:
		return node.EncodeRaw(writer, tree)
	case formatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)

		if err := encoder.Encode(node.ToJSON(node.Unwrap(tree))); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return encoder.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
