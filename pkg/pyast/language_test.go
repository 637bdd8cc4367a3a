package pyast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/match"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func TestLanguageModeDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode node.Mode
		src  string
		want node.Mode
		kind node.Kind
	}{
		{"lone expression", "", "a + 1\n", node.ModeEval, node.KindExpression},
		{"statement", "", "a = 1\n", node.ModeExec, node.KindModule},
		{"two expressions", "", "a\nb\n", node.ModeExec, node.KindModule},
		{"forced exec", node.ModeExec, "a + 1\n", node.ModeExec, node.KindModule},
		{"forced eval", node.ModeEval, "a + 1\n", node.ModeEval, node.KindExpression},
		{"forced single", node.ModeSingle, "a + 1\n", node.ModeSingle, node.KindInteractive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lang := NewLanguage(NewParser(), nil)
			lang.Mode = tt.mode

			root, mode, err := lang.Tree(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
			assert.Equal(t, tt.kind, root.Kind())
		})
	}
}

func TestLanguageForcedEvalRejectsStatements(t *testing.T) {
	t.Parallel()

	lang := NewLanguage(NewParser(), nil)
	lang.Mode = node.ModeEval

	_, _, err := lang.Tree(context.Background(), []byte("x = 1\n"))
	require.ErrorIs(t, err, ErrNotExpression)
}

func inlineX() *match.Transformation {
	rule := match.Must(match.Kind(node.KindName), match.Field("id", "x")).Then("inline x", func(node.Node) node.Node {
		return node.NewConstant(21)
	})

	return match.NewTransformation(match.NewRuleset(rule).WithMaxRounds(1))
}

func TestLanguageTransformation(t *testing.T) {
	t.Parallel()

	var started, finished int

	tr := inlineX()
	tr.OnStart = func(node.Node) { started++ }
	tr.OnFinish = func(root node.Node) node.Node {
		finished++

		return root
	}

	lang := NewLanguage(NewParser(), tr)

	out, err := lang.Source(context.Background(), []byte("y = x + 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "y = 21 + 1", out)
	assert.Equal(t, 1, started)
	assert.Equal(t, 1, finished)
	assert.Equal(t, 1, tr.Total())
}

func TestLanguageTransformationMustKeepRoot(t *testing.T) {
	t.Parallel()

	tr := match.NewTransformation(match.NewRuleset())
	tr.OnFinish = func(node.Node) node.Node { return &node.Pass{} }

	_, _, err := NewLanguage(NewParser(), tr).Tree(context.Background(), []byte("a = 1\n"))
	require.ErrorIs(t, err, node.ErrNotCompilable)
}

func TestLanguageCompile(t *testing.T) {
	t.Parallel()

	lang := NewLanguage(NewParser(), nil)
	lang.Filename = "expr.py"

	unit, err := lang.Compile(context.Background(), []byte("(a + b)"))
	require.NoError(t, err)
	assert.Equal(t, node.ModeEval, unit.Mode)
	assert.Equal(t, "expr.py", unit.Filename)
	assert.Equal(t, "a + b", unit.Source)

	lang.Render = node.RenderOptions{Quote: '\'', Indent: 2}

	unit, err = lang.Compile(context.Background(), []byte("def f():\n    return \"s\"\n"))
	require.NoError(t, err)
	assert.Equal(t, node.ModeExec, unit.Mode)
	assert.Equal(t, "def f():\n  return 's'", unit.Source)
	require.NoError(t, NewHostCompiler(lang.Parser, 0).Check(context.Background(), unit))
}

func TestLanguageRun(t *testing.T) {
	t.Parallel()

	lang := NewLanguage(NewParser(), inlineX())

	_, err := lang.Run(context.Background(), []byte("x + 1"), nil)
	require.ErrorIs(t, err, ErrInterpreterUnavailable)

	in := requirePython(t)

	result, err := lang.Run(context.Background(), []byte("x * 2"), in)
	require.NoError(t, err)
	assert.Equal(t, "42", result.Value())
}
