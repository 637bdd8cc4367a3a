package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffLines(t *testing.T) {
	t.Parallel()

	diff := DiffLines("a\nb\nc\n", "a\nB\nc\nd\n")

	assert.True(t, diff.Changed())
	assert.Equal(t, 2, diff.Added)
	assert.Equal(t, 1, diff.Removed)
	assert.Equal(t, " a\n-b\n+B\n c\n+d\n", diff.String())
}

func TestDiffLinesEqual(t *testing.T) {
	t.Parallel()

	diff := DiffLines("x = 1\n", "x = 1\n")

	assert.False(t, diff.Changed())
	assert.Equal(t, " x = 1\n", diff.String())
}
