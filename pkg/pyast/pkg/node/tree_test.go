package node //nolint:testpackage // Tests need access to internal helpers.

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	t.Parallel()

	left := binop(name("a"), Add, num(1))
	right := binop(name("a"), Add, num(1))
	right.SetPos(&Position{Lineno: 9, ColOffset: 3})

	assert.True(t, Equal(left, right), "positions are ignored")
	assert.False(t, Equal(left, binop(name("a"), Sub, num(1))))
	assert.False(t, Equal(left, binop(name("a"), Add, NewConstant(1.0))), "int and float constants differ")
	assert.True(t, Equal(NewName("x"), &Name{ID: "x", Ctx: Load}), "defaults resolve before comparison")
	assert.False(t, Equal(NewName("x"), &Name{ID: "x", Ctx: Store}))
	assert.True(t, Equal(&Call{Func: NewName("f")}, &Call{Func: NewName("f"), Args: []Expr{}}))
	assert.True(t, Equal(nil, (*Name)(nil)))
	assert.False(t, Equal(NewName("x"), nil))
	assert.True(t, Equal(NewRaw("X", "a", int64(1)), NewRaw("X", "a", int64(1))))
	assert.False(t, Equal(NewRaw("X", "a", int64(1)), NewRaw("X", "a", int64(2))))
	assert.True(t, Equal(&BinOp{Left: NewName("a")}, &BinOp{Left: NewName("a")}), "both missing counts as equal")
	assert.False(t, Equal(&BinOp{Left: NewName("a")}, left))
}

func TestValueEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, ValueEqual(1, 1.0))
	assert.True(t, ValueEqual(true, 1))
	assert.True(t, ValueEqual(NewConstant(0), 0))
	assert.True(t, ValueEqual(0, NewConstant(false)))
	assert.False(t, ValueEqual("1", 1))
	assert.False(t, ValueEqual(NewName("x"), 0))
}

func TestDump(t *testing.T) {
	t.Parallel()

	tree := &Assign{
		Targets: []Expr{&Name{ID: "x", Ctx: Store}},
		Value:   binop(name("a"), Mult, NewConstant("s")),
	}

	assert.Equal(t,
		`Assign(targets=[Name(id='x', ctx=Store())], `+
			`value=BinOp(left=Name(id='a', ctx=Load()), op=Mult(), right=Constant(value='s')))`,
		Dump(tree))

	assert.Equal(t, `Assign(targets=[Name(...)], value=BinOp(...))`, DumpDepth(tree, 1))
	assert.Equal(t, `Assign(...)`, DumpDepth(tree, 0))
	assert.Equal(t, `Return(value=None)`, Dump(&Return{}))
	assert.Equal(t, `Constant(value=None)`, Dump(NewConstant(None)))
	assert.Equal(t, `Constant(value=b'\x00')`, Dump(NewConstant([]byte{0})))
	assert.Equal(t, `BinOp(right=Constant(value=2))`, Dump(&BinOp{Right: num(2)}))
}

func TestChildren(t *testing.T) {
	t.Parallel()

	left, right := name("a"), num(1)
	bop := binop(left, Add, right)

	assert.Equal(t, []Node{left, right}, Children(bop), "operators are not children")

	dict := &Dict{Keys: []Expr{nil, name("k")}, Values: []Expr{name("m"), num(2)}}
	assert.Len(t, Children(dict), 3)
	assert.Nil(t, Children(nil))

	var kinds []Kind

	Inspect(&Module{Body: []Stmt{&ExprStmt{Value: bop}, &Pass{}}}, func(n Node) bool {
		kinds = append(kinds, n.Kind())

		return n.Kind() != KindBinOp
	})

	assert.Equal(t, []Kind{KindModule, KindExpr, KindBinOp, KindPass}, kinds)
}

func TestMapChildren(t *testing.T) {
	t.Parallel()

	call := &Call{Func: NewName("f"), Args: []Expr{num(1), name("drop"), num(2)}}

	err := MapChildren(call, func(n Node) (Node, error) {
		switch typed := n.(type) {
		case *Name:
			if typed.ID == "drop" {
				return nil, nil
			}

			return E(typed).Attr("method"), nil
		case *Constant:
			return E(typed).Add(10), nil
		}

		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "f.method(1 + 10, 2 + 10)", mustRender(t, call))

	ret := &Return{Value: num(1)}
	require.NoError(t, MapChildren(ret, func(Node) (Node, error) { return nil, nil }))
	assert.Nil(t, ret.Value)

	err = MapChildren(&ExprStmt{Value: num(1)}, func(Node) (Node, error) { return &Pass{}, nil })
	require.ErrorIs(t, err, ErrFieldType)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "value", fieldErr.Field)

	boom := errors.New("boom")
	err = MapChildren(call, func(Node) (Node, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	dict := &Dict{Keys: []Expr{nil}, Values: []Expr{name("m")}}
	require.NoError(t, MapChildren(dict, func(n Node) (Node, error) { return n, nil }))
	assert.Equal(t, "{**m}", mustRender(t, dict))
}
