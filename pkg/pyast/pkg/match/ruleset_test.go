package match //nolint:testpackage // Tests need access to internal fields.

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

var isOne = Must(Kind(node.KindConstant), Field("value", 1))

func simplifications() []*Rule {
	binOp := func(op node.BinaryOperator, side string, identity *Match) *Match {
		return Must(Kind(node.KindBinOp), Field("op", op), Field(side, identity))
	}

	keepLeft := func(n node.Node) node.Node { return n.(*node.BinOp).Left }
	keepRight := func(n node.Node) node.Node { return n.(*node.BinOp).Right }

	return []*Rule{
		binOp(node.Add, "right", isZero).Then("a + 0", keepLeft),
		binOp(node.Add, "left", isZero).Then("0 + a", keepRight),
		binOp(node.Mult, "right", isOne).Then("a * 1", keepLeft),
		binOp(node.Mult, "left", isOne).Then("1 * a", keepRight),
	}
}

func bin(left node.Expr, op node.BinaryOperator, right node.Expr) *node.BinOp {
	return &node.BinOp{Left: left, Op: op, Right: right}
}

func TestRulesetLinearSimplification(t *testing.T) {
	t.Parallel()

	a, b, c := node.NewName("a"), node.NewName("b"), node.NewName("c")
	zero, one := node.NewConstant(0), node.NewConstant(1)

	// a + 0 + (b * 1 * c)
	tree := bin(bin(a, node.Add, zero), node.Add, bin(bin(b, node.Mult, one), node.Mult, c))

	result, err := NewRuleset(simplifications()...).Visit(tree)
	require.NoError(t, err)

	rendered, err := node.Render(result)
	require.NoError(t, err)
	assert.Equal(t, "a + b * c", rendered)
}

func TestRuleApply(t *testing.T) {
	t.Parallel()

	rule := simplifications()[0]
	tree := bin(node.NewName("a"), node.Add, node.NewConstant(0))
	other := bin(node.NewName("a"), node.Add, node.NewConstant(2))

	assert.Equal(t, node.KindName, rule.Apply(tree).Kind())
	assert.Same(t, other, rule.Apply(other), "non-matching nodes come back untouched")
	assert.Equal(t, node.KindBinOp, rule.Kind())

	sugared := Must(Kind(node.KindName)).Then("double", func(n node.Node) node.Node {
		return node.E(n).Mul(2)
	})

	doubled := sugared.Apply(node.NewName("x"))
	assert.IsType(t, &node.BinOp{}, doubled, "sugar wrappers are unwrapped")
}

func TestRulesetTransformRepeats(t *testing.T) {
	t.Parallel()

	zero := func() node.Expr { return node.NewConstant(0) }
	tree := bin(bin(bin(node.NewName("a"), node.Add, zero()), node.Add, zero()), node.Add, zero())

	result, rewrites, err := NewRuleset(simplifications()...).Transform(tree)
	require.NoError(t, err)
	assert.Equal(t, 3, rewrites)
	assert.Equal(t, node.KindName, result.Kind())

	untouched, rewrites, err := NewRuleset().Transform(tree)
	require.NoError(t, err)
	assert.Zero(t, rewrites)
	assert.Same(t, tree, untouched)
}

func TestRulesetRulesFor(t *testing.T) {
	t.Parallel()

	generic := Must().Then("generic", func(n node.Node) node.Node { return n })
	rules := simplifications()
	rs := NewRuleset(generic, rules[0], nil, rules[1])

	assert.Equal(t, []*Rule{rules[0], rules[1], generic}, rs.RulesFor(node.KindBinOp))
	assert.Equal(t, []*Rule{generic}, rs.RulesFor(node.KindName))
	assert.Len(t, rs.Rules(), 3)
	assert.True(t, rs.Matches(bin(node.NewName("x"), node.Add, node.NewConstant(0))))
	assert.False(t, NewRuleset(rules...).Matches(node.NewName("x")))
}

func TestRulesetRemovesNodes(t *testing.T) {
	t.Parallel()

	dropStrings := Must(Kind(node.KindExpr), Field("value", Must(Kind(node.KindConstant)))).
		Then("drop bare constants", func(node.Node) node.Node { return nil })

	module := &node.Module{Body: []node.Stmt{
		&node.ExprStmt{Value: node.NewConstant("doc")},
		&node.Return{Value: node.NewName("x")},
		&node.ExprStmt{Value: node.NewConstant(1)},
	}}

	result, err := NewRuleset(dropStrings).Visit(module)
	require.NoError(t, err)

	rendered, err := node.Render(result)
	require.NoError(t, err)
	assert.Equal(t, "return x", rendered)

	removed, err := NewRuleset(dropStrings).Visit(&node.ExprStmt{Value: node.NewConstant(1)})
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestRulesetRoundLimit(t *testing.T) {
	t.Parallel()

	loop := Must(Kind(node.KindName)).Then("loop", func(n node.Node) node.Node {
		return node.NewName(n.(*node.Name).ID)
	})

	tree := &node.Return{Value: node.NewName("x")}

	var logs bytes.Buffer

	rs := NewRuleset(loop).WithMaxRounds(5).WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := rs.Visit(tree)
	require.ErrorIs(t, err, ErrRoundLimit)

	var fieldErr *node.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "value", fieldErr.Field)
	assert.Contains(t, logs.String(), "rule=loop")
}

func TestRulesetFieldTypeMismatch(t *testing.T) {
	t.Parallel()

	toStmt := Must(Kind(node.KindName)).Then("bad", func(node.Node) node.Node { return &node.Pass{} })

	_, err := NewRuleset(toStmt).Visit(&node.Return{Value: node.NewName("x")})
	assert.ErrorIs(t, err, node.ErrFieldType)
}

func TestTransformation(t *testing.T) {
	t.Parallel()

	tree := &node.Module{Body: []node.Stmt{
		&node.ExprStmt{Value: bin(node.NewName("a"), node.Add, node.NewConstant(0))},
		&node.ExprStmt{Value: bin(node.NewConstant(1), node.Mult, node.NewName("b"))},
	}}

	var started node.Node

	observed := 0
	rs := NewRuleset(simplifications()...).WithObserver(func(*Rule) { observed++ })

	tr := NewTransformation(rs)
	tr.OnStart = func(root node.Node) { started = root }
	tr.OnFinish = func(root node.Node) node.Node {
		module := root.(*node.Module)
		module.Body = append(module.Body, &node.Pass{})

		return module
	}

	result, err := tr.Run(context.Background(), tree)
	require.NoError(t, err)

	rendered, err := node.Render(result)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\npass", rendered)

	assert.Same(t, tree, started)
	assert.Equal(t, map[string]int{"a + 0": 1, "1 * a": 1}, tr.Rewrites())
	assert.Equal(t, 2, tr.Total())
	assert.Equal(t, 2, observed, "the ruleset observer still fires")
	assert.NotNil(t, rs.observer, "Run leaves the ruleset observer in place")
}

func TestTransformationsShareRuleset(t *testing.T) {
	t.Parallel()

	rs := NewRuleset(simplifications()...)

	const runs = 8

	transformations := make([]*Transformation, runs)

	var wg sync.WaitGroup

	for idx := range runs {
		tr := NewTransformation(rs)
		transformations[idx] = tr

		wg.Add(1)

		go func() {
			defer wg.Done()

			body := make([]node.Stmt, 0, idx+1)
			for range idx + 1 {
				body = append(body, &node.ExprStmt{Value: bin(node.NewName("a"), node.Add, node.NewConstant(0))})
			}

			_, err := tr.Run(context.Background(), &node.Module{Body: body})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	for idx, tr := range transformations {
		assert.Equal(t, map[string]int{"a + 0": idx + 1}, tr.Rewrites(), "run %d", idx)
	}

	assert.Nil(t, rs.observer)
}
