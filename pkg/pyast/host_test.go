package pyast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func compileUnit(t *testing.T, n node.Node) *node.CodeUnit {
	t.Helper()

	unit, err := node.Compile(n, "unit.py")
	require.NoError(t, err)

	return unit
}

func TestHostCompilerAccepts(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	host := NewHostCompiler(parser, 0)

	tests := []struct {
		name string
		root node.Node
	}{
		{"module", parseModule(t, "def f(a, *b):\n    return [x ** 2 for x in b if x]\n")},
		{"expression", node.E(node.NewName("a")).Add(1).Mul(node.NewName("b")).Expr},
		{"interactive", &node.Interactive{Body: []node.Stmt{&node.Pass{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.NoError(t, host.Check(context.Background(), compileUnit(t, tt.root)))
		})
	}
}

func TestHostCompilerSizeLimit(t *testing.T) {
	t.Parallel()

	host := NewHostCompiler(NewParser(), 4)

	err := host.Check(context.Background(), compileUnit(t, parseModule(t, "value = 12345\n")))
	require.ErrorIs(t, err, ErrSourceTooLarge)
	assert.Contains(t, err.Error(), "unit.py")
	assert.Contains(t, err.Error(), "4 B")
}

func TestHostCompilerDrift(t *testing.T) {
	t.Parallel()

	unit := compileUnit(t, parseModule(t, "x = 1\n"))
	unit.Source = "x = 2"

	err := NewHostCompiler(NewParser(), 0).Check(context.Background(), unit)
	require.ErrorIs(t, err, ErrCompileDrift)
}

func TestHostCompilerSyntaxError(t *testing.T) {
	t.Parallel()

	unit := compileUnit(t, parseModule(t, "x = 1\n"))
	unit.Source = "x = = 1"

	err := NewHostCompiler(NewParser(), 0).Check(context.Background(), unit)
	require.ErrorIs(t, err, ErrSyntax)
}
