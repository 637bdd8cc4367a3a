package node //nolint:testpackage // Tests need access to internal helpers.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSugarBuildsExpressions(t *testing.T) {
	t.Parallel()

	a, b := E(name("a")), E(name("b"))

	tests := []struct {
		name string
		expr Ex
		want string
	}{
		{"add mul", a.Add(b.Mul(3)), "a + b * 3"},
		{"grouping", a.Add(b).Mul(3), "(a + b) * 3"},
		{"pow chain", a.Pow(b).Pow(2), "(a ** b) ** 2"},
		{"neg pow", a.Neg().Pow(2), "(-a) ** 2"},
		{"plus invert", a.Plus().Invert(), "~+a"},
		{"not", a.Eq(b).Not(), "not a == b"},
		{"boolean", a.Or(b).And(true), "(a or b) and True"},
		{"comparison", a.Lt(b), "a < b"},
		{"fresh compare", a.Lt(b).Lt(3), "(a < b) < 3"},
		{"membership", a.NotIn(b).Or(a.IsNot(None)), "a not in b or a is not None"},
		{"shift", a.LShift(1).BitOr(b.BitAnd(2)), "a << 1 | b & 2"},
		{"call", a.Attr("get").Call("k", KW("default", 0)), `a.get("k", default=0)`},
		{"index", a.Index(b.Sub(1)).FloorDiv(2), "a[b - 1] // 2"},
		{"literal left", E(2).MatMul(a).Mod(b).Div(1.5), "2 @ a % b / 1.5"},
		{"xor rshift", a.BitXor(b.RShift(a)), "a ^ b >> a"},
		{"ordering", a.Le(1).And(a.Ge(0)).And(b.Gt(a)).And(b.Ne(a)), "((a <= 1 and a >= 0) and b > a) and b != a"},
		{"is in", a.Is(b).Or(a.In(b)), "a is b or a in b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mustRender(t, tt.expr.Node()))
		})
	}
}

func TestSugarLeavesOperandsUntouched(t *testing.T) {
	t.Parallel()

	base := name("a")
	sum := E(base).Add(1)

	assert.Equal(t, "a", base.ID)
	assert.Same(t, base, sum.Node().(*BinOp).Left)
	assert.Equal(t, "Call", string(E(finalizeHelper).Call().Node().Kind()))
	assert.Equal(t, "finalizeHelper()", mustRender(t, E(finalizeHelper).Call().Node()))
}

func TestSugarPanicsOnNonExpression(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { E(&Pass{}) })
	assert.Panics(t, func() { E(name("a")).Add(struct{}{}) })
	assert.Panics(t, func() { E(func() {}) })
}

func TestSugarIntoFields(t *testing.T) {
	t.Parallel()

	ret := &Return{}
	require.NoError(t, SetField(ret, "value", E(name("a")).Sub(1)))

	_, isEx := ret.Value.(Ex)
	assert.False(t, isEx, "sugar wrappers never reach the tree")
	assert.Equal(t, "return a - 1", mustRender(t, ret))
}
