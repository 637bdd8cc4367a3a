package node //nolint:testpackage // Tests need access to internal helpers.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  Node
		mode   Mode
		source string
	}{
		{"module", &Module{Body: []Stmt{&Pass{}}}, ModeExec, "pass"},
		{"interactive", &Interactive{Body: []Stmt{&ExprStmt{Value: name("x")}}}, ModeSingle, "x"},
		{"expression", &Expression{Body: num(1)}, ModeEval, "1"},
		{"bare expression", binop(name("a"), Add, num(2)), ModeEval, "a + 2"},
		{"bare statement", &Return{Value: name("r")}, ModeExec, "return r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			unit, err := Compile(tt.input, "")
			require.NoError(t, err)

			assert.Equal(t, tt.mode, unit.Mode)
			assert.Equal(t, DefaultFilename, unit.Filename)
			assert.Equal(t, tt.source, unit.Source)
			assert.NotNil(t, unit.Root)
		})
	}
}

func TestCompileFinalizesRoot(t *testing.T) {
	t.Parallel()

	stmt := &ExprStmt{Value: &Call{Func: NewName("f")}}

	unit, err := Compile(stmt, "job.py")
	require.NoError(t, err)
	assert.Equal(t, "job.py", unit.Filename)

	module, ok := unit.Root.(*Module)
	require.True(t, ok)
	require.Len(t, module.Body, 1)
	assert.Same(t, stmt, module.Body[0])
	assert.Equal(t, &Position{Lineno: 1, ColOffset: 0}, stmt.Pos())
	assert.NotNil(t, stmt.Value.(*Call).Args)
}

func TestCompileRejects(t *testing.T) {
	t.Parallel()

	for _, input := range []Node{&Arg{Arg: "a"}, Add, Load, NewRaw("TypeAlias"), nil, &Keyword{Value: num(1)}} {
		_, err := Compile(input, "")
		assert.ErrorIs(t, err, ErrNotCompilable)
	}

	_, err := Compile(&Module{Body: []Stmt{&Try{Body: []Stmt{&Pass{}}}}}, "")
	assert.ErrorIs(t, err, ErrUnrenderable)
}
