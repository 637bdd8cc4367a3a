package node //nolint:testpackage // Tests need access to internal helpers.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finalizeHelper() {}

func TestFinalizeBoxesLiterals(t *testing.T) {
	t.Parallel()

	boxed, ok := Finalize(3).(*Constant)
	require.True(t, ok)
	assert.Equal(t, int64(3), boxed.Value)
	assert.Equal(t, &Position{Lineno: 1, ColOffset: 0}, boxed.Pos())

	list, ok := Finalize([]any{1, "a", None}).([]any)
	require.True(t, ok)
	require.Len(t, list, 3)

	for _, elem := range list {
		assert.IsType(t, &Constant{}, elem)
	}

	fn, ok := Finalize(finalizeHelper).(*Name)
	require.True(t, ok)
	assert.Equal(t, "finalizeHelper", fn.ID)

	closure := func() {}
	_, boxedClosure := Finalize(closure).(*Name)
	assert.False(t, boxedClosure, "closures have no recoverable name")

	assert.Equal(t, "plain", Finalize(struct{ A string }{"plain"}).(struct{ A string }).A)
}

func TestFinalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	call := FinalizeNode(&Call{Func: NewName("f")}).(*Call)
	assert.NotNil(t, call.Args)
	assert.NotNil(t, call.Keywords)
	assert.Equal(t, Load, call.Func.(*Name).Ctx)

	fn := FinalizeNode(&FunctionDef{Name: "f"}).(*FunctionDef)
	require.NotNil(t, fn.Args)
	assert.NotNil(t, fn.Args.Args)
	assert.NotNil(t, fn.DecoratorList)
	assert.Nil(t, fn.Returns)

	ann := FinalizeNode(&AnnAssign{Target: NewName("x"), Annotation: NewName("int")}).(*AnnAssign)
	require.NotNil(t, ann.Simple)
	assert.Equal(t, 1, *ann.Simple)

	fv := FinalizeNode(&FormattedValue{Value: NewName("x")}).(*FormattedValue)
	assert.Equal(t, ConversionNone, fv.Conversion)
}

func TestFinalizePropagatesPositions(t *testing.T) {
	t.Parallel()

	inner := &Name{ID: "b"}
	inner.SetPos(&Position{Lineno: 7, ColOffset: 4})

	leaf := &Name{ID: "c"}
	nested := &BinOp{Left: inner, Op: Add, Right: leaf}
	nested.SetPos(&Position{Lineno: 7, ColOffset: 0})

	outer := &BinOp{Left: &Name{ID: "a"}, Op: Mult, Right: nested}
	outer.SetPos(&Position{Lineno: 5, ColOffset: 2})

	FinalizeNode(&Module{Body: []Stmt{&ExprStmt{Value: outer}}})

	assert.Equal(t, &Position{Lineno: 5, ColOffset: 2}, outer.Left.Pos())
	assert.Equal(t, &Position{Lineno: 7, ColOffset: 4}, inner.Pos())
	assert.Equal(t, &Position{Lineno: 7, ColOffset: 0}, leaf.Pos())

	stmt := &Pass{}
	FinalizeAt(stmt, 3, 1)
	assert.Equal(t, &Position{Lineno: 3, ColOffset: 1}, stmt.Pos())

	// Inherited positions are copies, not shared pointers.
	leaf.Pos().Lineno = 99
	assert.Equal(t, 7, nested.Pos().Lineno)
}

func TestFinalizeLeavesConstantValue(t *testing.T) {
	t.Parallel()

	payload := []any{1, 2}
	constant := FinalizeNode(&Constant{Value: payload}).(*Constant)

	assert.Equal(t, payload, constant.Value)
}

func TestFinalizeIdempotent(t *testing.T) {
	t.Parallel()

	tree := &Module{Body: []Stmt{
		&FunctionDef{Name: "f", Body: []Stmt{
			&Return{Value: &Call{Func: NewName("g"), Args: []Expr{NewConstant(1)}}},
		}},
		&ExprStmt{Value: &JoinedStr{Values: []Expr{&FormattedValue{Value: NewName("x")}}}},
	}}

	once := FinalizeNode(tree)
	dumped := Dump(once)
	rendered := mustRender(t, once)

	twice := FinalizeNode(once)
	assert.Equal(t, dumped, Dump(twice))
	assert.Equal(t, rendered, mustRender(t, twice))
	assert.True(t, Equal(once, twice))
}

func TestFinalizeRawNode(t *testing.T) {
	t.Parallel()

	raw := NewRaw("TypeAlias", "name", NewName("T"), "value", "int")
	FinalizeAt(raw, 2, 0)

	assert.Equal(t, &Position{Lineno: 2, ColOffset: 0}, raw.Pos())
	assert.Equal(t, "int", raw.Fields["value"], "raw scalars are payloads, not literals")
	assert.Equal(t, &Position{Lineno: 2, ColOffset: 0}, raw.Fields["name"].(*Name).Pos())
}
