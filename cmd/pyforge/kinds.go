package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func kindsCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the node kinds with their fields",
		Long: `List every node kind with its family and fields. Optional fields are
marked with "?", fields with a default with "=".

Examples:
  pyforge kinds
  pyforge kinds --family stmt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Format.Footer = text.FormatDefault
			tbl.Style().Options.SeparateRows = false
			tbl.AppendHeader(table.Row{"Kind", "Family", "Fields"})

			count := 0

			for _, info := range node.Kinds() {
				if family != "" && info.Family.String() != family {
					continue
				}

				tbl.AppendRow(table.Row{info.Kind, info.Family, describeFields(info)})

				count++
			}

			tbl.AppendFooter(table.Row{fmt.Sprintf("%d kinds", count)})
			tbl.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&family, "family", "", "only list one family (expr, stmt, data, operator, context, root)")

	return cmd
}

func describeFields(info *node.KindInfo) string {
	parts := make([]string, 0, len(info.Fields))

	for _, field := range info.Fields {
		name := field.Name

		switch {
		case field.HasDefault:
			name += "="
		case field.Optional:
			name += "?"
		}

		parts = append(parts, name)
	}

	return strings.Join(parts, ", ")
}
