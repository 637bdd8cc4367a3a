package pyast

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff is a line-level comparison of two source texts.
type LineDiff struct {
	Diffs   []diffmatchpatch.Diff
	Added   int
	Removed int
}

// DiffLines compares before and after line by line.
func DiffLines(before, after string) *LineDiff {
	dmp := diffmatchpatch.New()

	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lines)

	out := &LineDiff{Diffs: diffs}

	for _, edit := range diffs {
		switch edit.Type {
		case diffmatchpatch.DiffInsert:
			out.Added += countLines(edit.Text)
		case diffmatchpatch.DiffDelete:
			out.Removed += countLines(edit.Text)
		case diffmatchpatch.DiffEqual:
		}
	}

	return out
}

// Changed reports whether any line differs.
func (d *LineDiff) Changed() bool {
	return d.Added > 0 || d.Removed > 0
}

// String renders the diff with "-", "+" and " " line prefixes.
func (d *LineDiff) String() string {
	var sb strings.Builder

	for _, edit := range d.Diffs {
		mark := " "

		switch edit.Type {
		case diffmatchpatch.DiffInsert:
			mark = "+"
		case diffmatchpatch.DiffDelete:
			mark = "-"
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range splitLines(edit.Text) {
			sb.WriteString(mark)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func countLines(text string) int {
	return len(splitLines(text))
}
