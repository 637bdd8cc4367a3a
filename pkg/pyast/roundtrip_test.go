package pyast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func TestRoundTripCorpus(t *testing.T) {
	t.Parallel()

	files, err := filepath.Glob(filepath.Join("testdata", "*.py"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	parser := NewParser()

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			t.Parallel()

			src, err := os.ReadFile(file)
			require.NoError(t, err)

			rt, err := CheckRoundTrip(context.Background(), parser, src, node.DefaultRenderOptions())
			require.NoError(t, err)
			assert.True(t, rt.Fixpoint, "rendering is not a fixpoint:\n%s", rt.Diff)
			assert.True(t, rt.Structural, "reparsed tree differs")
			assert.True(t, rt.OK())
		})
	}
}

func TestRoundTripRenderOptions(t *testing.T) {
	t.Parallel()

	opts := node.RenderOptions{Quote: '\'', Indent: 2}

	rt, err := CheckRoundTrip(context.Background(), NewParser(), []byte("if x:\n    y = \"s\"\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "if x:\n  y = 's'", rt.First)
	assert.True(t, rt.OK())
}

func TestRoundTripSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := CheckRoundTrip(context.Background(), NewParser(), []byte("def (:\n"), node.DefaultRenderOptions())
	require.ErrorIs(t, err, ErrSyntax)
}

var propertyOperators = []node.BinaryOperator{node.Add, node.Sub, node.Mult, node.Pow, node.FloorDiv, node.BitXor}

// expressionFromSeed folds a seed into an expression. Constants stay
// non-negative so their text reads back as a literal, not a negation.
func expressionFromSeed(seed []int) node.Expr {
	stack := []node.Expr{}

	for _, value := range seed {
		switch {
		case value < 5 || len(stack) < 2:
			if value%2 == 0 {
				stack = append(stack, node.NewName(string(rune('a'+value%26))))
			} else {
				stack = append(stack, node.NewConstant(value))
			}
		case value < 12:
			left, right := stack[len(stack)-2], stack[len(stack)-1]
			stack = append(stack[:len(stack)-2],
				&node.BinOp{Left: left, Op: propertyOperators[value%len(propertyOperators)], Right: right})
		case value < 15:
			left, right := stack[len(stack)-2], stack[len(stack)-1]
			stack = append(stack[:len(stack)-2],
				&node.Compare{Left: left, Ops: []node.CmpOperator{node.LtE}, Comparators: []node.Expr{right}})
		case value < 18:
			left, right := stack[len(stack)-2], stack[len(stack)-1]
			stack = append(stack[:len(stack)-2], &node.BoolOp{Op: node.Or, Values: []node.Expr{left, right}})
		default:
			top := stack[len(stack)-1]
			stack[len(stack)-1] = &node.UnaryOp{Op: node.Not, Operand: top}
		}
	}

	if len(stack) == 0 {
		return node.NewName("empty")
	}

	return &node.Tuple{Elts: stack}
}

func TestRoundTripProperty(t *testing.T) {
	t.Parallel()

	parser := NewParser()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150

	properties := gopter.NewProperties(parameters)

	properties.Property("rendered expressions reach a fixpoint", prop.ForAll(
		func(seed []int) bool {
			module := &node.Module{Body: []node.Stmt{&node.ExprStmt{Value: expressionFromSeed(seed)}}}

			text, err := node.Render(node.FinalizeNode(module))
			if err != nil {
				return false
			}

			rt, err := CheckRoundTrip(context.Background(), parser, []byte(text), node.DefaultRenderOptions())

			return err == nil && rt.OK() && rt.First == text
		},
		gen.SliceOf(gen.IntRange(0, 20)),
	))

	properties.TestingRun(t)
}
