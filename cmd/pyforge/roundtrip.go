package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast"
)

// ErrRoundTrip reports files that do not survive render and reparse.
var ErrRoundTrip = errors.New("round trip failed")

type roundtripRow struct {
	file     string
	size     int
	outcome  string
	changed  string
	duration time.Duration
}

func roundtripCmd(a *app) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "roundtrip files...",
		Short: "Check that rendering is a fixpoint for Python files",
		Long: `Render each file canonically, parse the rendering and render it again.
A file passes when both renderings are identical and both parses give the
same tree. Failing files print a line diff with --diff.

Examples:
  pyforge roundtrip src/*.py
  pyforge roundtrip --diff module.py`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRoundtrip(cmd, args, showDiff)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff for files whose rendering changes")

	return cmd
}

func (a *app) runRoundtrip(cmd *cobra.Command, files []string, showDiff bool) error {
	out := cmd.OutOrStdout()
	parser := a.parser()
	rows := make([]roundtripRow, 0, len(files))
	failed := 0

	for _, file := range files {
		src, label, err := safeReadFile(file)
		if err != nil {
			return err
		}

		start := time.Now()

		rt, err := pyast.CheckRoundTrip(cmd.Context(), parser, src, a.renderOptions())
		if err == nil && !rt.OK() {
			err = ErrRoundTrip
		}

		a.record(cmd.Context(), "roundtrip", label, start, err)

		row := roundtripRow{file: label, size: len(src), duration: time.Since(start)}

		switch {
		case rt == nil:
			row.outcome = color.RedString("error")
			row.changed = sanitizeForTerminal(err.Error())
		case rt.OK():
			row.outcome = color.GreenString("ok")
		default:
			row.outcome = color.RedString("changed")
			row.changed = fmt.Sprintf("+%d -%d", rt.Diff.Added, rt.Diff.Removed)

			if !rt.Structural {
				row.changed += " tree"
			}
		}

		if err != nil {
			failed++
		}

		if showDiff && rt != nil && rt.Diff.Changed() && !a.quiet {
			color.New(color.FgYellow).Fprintf(out, "--- %s\n", label)
			fmt.Fprint(out, rt.Diff.String())
		}

		rows = append(rows, row)
	}

	if !a.quiet {
		writeRoundtripTable(out, rows, failed)
	}

	if failed > 0 {
		return &exitError{code: exitCodeCheckFailure, err: fmt.Errorf("%w: %d of %d files", ErrRoundTrip, failed, len(files))}
	}

	return nil
}

func writeRoundtripTable(out io.Writer, rows []roundtripRow, failed int) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"File", "Size", "Status", "Detail", "Time"})

	total := 0

	for _, row := range rows {
		total += row.size
		tbl.AppendRow(table.Row{row.file, humanize.Bytes(uint64(row.size)), row.outcome, row.changed, row.duration.Round(time.Microsecond)}) //nolint:gosec // sizes are non-negative
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(rows)),
		humanize.Bytes(uint64(total)), //nolint:gosec // sizes are non-negative
		fmt.Sprintf("%d failed", failed),
	})
	tbl.Render()
}
