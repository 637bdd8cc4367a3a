package match //nolint:testpackage // Tests need access to internal fields.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func constantValue(n node.Node) int64 {
	value, ok := n.(*node.Constant).Value.(int64)
	if !ok {
		return 0
	}

	return value
}

var (
	isZero     = Must(Kind(node.KindConstant), Field("value", 0))
	isPositive = Must(Kind(node.KindConstant), When(func(n node.Node) bool { return constantValue(n) > 0 }))
)

func TestMatchCombination(t *testing.T) {
	t.Parallel()

	either := isZero.Or(isPositive)

	assert.True(t, either.Matches(node.NewConstant(0)))
	assert.True(t, either.Matches(node.NewConstant(5)))
	assert.False(t, either.Matches(node.NewConstant(-1)))
	assert.False(t, either.Matches(node.NewName("x")))
	assert.Equal(t, node.KindConstant, either.NodeKind())

	both, err := isZero.And(isPositive)
	require.NoError(t, err)
	assert.False(t, both.Matches(node.NewConstant(0)))
	assert.False(t, both.Matches(node.NewConstant(5)))
	assert.Equal(t, node.KindConstant, both.NodeKind())
}

func TestMatchKindConflict(t *testing.T) {
	t.Parallel()

	isName := Must(Kind(node.KindName))

	_, err := isZero.And(isName)
	require.ErrorIs(t, err, ErrKindConflict)

	_, err = New(Kind(node.KindName), Kind(node.KindConstant))
	require.ErrorIs(t, err, ErrKindConflict)

	assert.Panics(t, func() { Must(Kind(node.KindName), When(isZero)) })

	mixed := isZero.Or(isName)
	assert.Empty(t, mixed.NodeKind(), "any-mode over different kinds keeps no kind filter")
	assert.True(t, mixed.Matches(node.NewName("x")))
	assert.True(t, mixed.Matches(node.NewConstant(0)))
	assert.False(t, mixed.Matches(node.NewConstant(1)))
}

func TestMatchKindOnlyConditionsFold(t *testing.T) {
	t.Parallel()

	m, err := New(When(Must(Kind(node.KindBinOp))), Field("op", node.Add))
	require.NoError(t, err)

	assert.Equal(t, node.KindBinOp, m.NodeKind())
	assert.Empty(t, m.conditions)
	assert.Equal(t, "Match(kind=BinOp, op=Add)", m.String())
}

func TestMatchFields(t *testing.T) {
	t.Parallel()

	add := &node.BinOp{Left: node.NewName("a"), Op: node.Add, Right: node.NewConstant(0)}

	tests := []struct {
		name  string
		match *Match
		want  bool
	}{
		{"operator value", Must(Field("op", node.Add)), true},
		{"operator name", Must(Field("op", "Add")), true},
		{"operator mismatch", Must(Field("op", node.Sub)), false},
		{"membership", Must(Field("op", []any{node.Sub, node.Add})), true},
		{"membership miss", Must(Field("op", []node.BinaryOperator{node.Sub, node.Mult})), false},
		{"numeric equality", Must(Field("right", 0.0)), true},
		{"sub match", Must(Field("right", isZero)), true},
		{"sub match miss", Must(Field("left", isZero)), false},
		{"node predicate", Must(Field("left", func(n node.Node) bool { return n.Kind() == node.KindName })), true},
		{"value predicate", Must(Field("left", func(v any) bool { return v == nil })), false},
		{"kind value", Must(Field("left", node.KindName)), true},
		{"unknown field", Must(Field("nope", 1)), false},
		{"any fields", Must(Field("op", node.Sub), Field("right", 0), AnyOf()), true},
		{"all fields", Must(Field("op", node.Sub), Field("right", 0)), false},
		{"missing field", Must(Field("left", node.NewName("a")), Field("right", 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.match.Matches(add), tt.match.String())
		})
	}

	assert.False(t, Must(Field("left", isZero)).Matches(&node.BinOp{}), "unset fields never match")
	assert.False(t, Must().Matches(nil))
	assert.True(t, Must().Matches(add), "an empty match accepts everything")
}

func TestMatchBadCondition(t *testing.T) {
	t.Parallel()

	_, err := New(When(42))
	require.ErrorIs(t, err, ErrBadCondition)

	_, err = New(When((*Match)(nil)))
	require.ErrorIs(t, err, ErrBadCondition)
}

func TestMatchString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Match(kind=Constant, value=0)", isZero.String())
	assert.Equal(t, "Match(kind=Constant, value=0) | Match(<predicate>, kind=Constant)",
		isZero.Or(isPositive).String())
}
