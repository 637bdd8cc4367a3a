package node //nolint:testpackage // Tests need access to precedence internals.

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(id string) *Name { return NewName(id) }

func num(v any) *Constant { return NewConstant(v) }

func binop(left Expr, op BinaryOperator, right Expr) *BinOp {
	return &BinOp{Left: left, Op: op, Right: right}
}

func mustRender(t *testing.T, n Node) string {
	t.Helper()

	out, err := Render(n)
	require.NoError(t, err)

	return out
}

func TestRenderPrecedence(t *testing.T) {
	t.Parallel()

	a, b, c := name("a"), name("b"), name("c")

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"lower left operand", binop(binop(a, Add, b), Mult, c), "(a + b) * c"},
		{"lower right operand", binop(a, Mult, binop(b, Add, c)), "a * (b + c)"},
		{"left associative chain", binop(binop(a, Sub, b), Sub, c), "a - b - c"},
		{"right nested same rank", binop(a, Sub, binop(b, Sub, c)), "a - (b - c)"},
		{"higher right operand", binop(a, Add, binop(b, Mult, c)), "a + b * c"},
		{"power right associative", binop(a, Pow, binop(b, Pow, c)), "a ** b ** c"},
		{"power left nested", binop(binop(a, Pow, b), Pow, c), "(a ** b) ** c"},
		{"unary under power", binop(&UnaryOp{Op: USub, Operand: a}, Pow, b), "(-a) ** b"},
		{"power under unary", &UnaryOp{Op: USub, Operand: binop(a, Pow, b)}, "-a ** b"},
		{"negative literal base", binop(num(-1), Pow, num(2)), "(-1) ** 2"},
		{"or over and", &BoolOp{Op: Or, Values: []Expr{a, &BoolOp{Op: And, Values: []Expr{b, c}}}}, "a or (b and c)"},
		{"and over or", &BoolOp{Op: And, Values: []Expr{a, &BoolOp{Op: Or, Values: []Expr{b, c}}}}, "a and (b or c)"},
		{"flat or", &BoolOp{Op: Or, Values: []Expr{a, b, c}}, "a or b or c"},
		{"not over compare", &UnaryOp{Op: Not, Operand: &Compare{Left: a, Ops: []CmpOperator{Eq}, Comparators: []Expr{b}}}, "not a == b"},
		{"compare chain", &Compare{Left: a, Ops: []CmpOperator{Lt, Lt}, Comparators: []Expr{b, c}}, "a < b < c"},
		{"compare words", &Compare{Left: a, Ops: []CmpOperator{NotIn, IsNot}, Comparators: []Expr{b, c}}, "a not in b is not c"},
		{"nested compare", &Compare{
			Left: &Compare{Left: a, Ops: []CmpOperator{Lt}, Comparators: []Expr{b}}, Ops: []CmpOperator{Eq}, Comparators: []Expr{c},
		}, "(a < b) == c"},
		{"lambda operand", binop(&Lambda{Body: a}, Add, num(1)), "(lambda: a) + 1"},
		{"conditional operand", binop(&IfExp{Test: a, Body: b, Orelse: c}, Mult, num(2)), "(b if a else c) * 2"},
		{"generator argument", &Call{Func: name("f"), Args: []Expr{&GeneratorExp{
			Elt: a, Generators: []*Comprehension{{Target: a, Iter: b}},
		}}}, "f((a for a in b))"},
		{"int attribute", &Attribute{Value: num(1), Attr: "real"}, "(1).real"},
		{"float attribute", &Attribute{Value: num(1.5), Attr: "real"}, "1.5.real"},
		{"call on sum", &Call{Func: binop(a, Add, b)}, "(a + b)()"},
		{"await power", binop(&Await{Value: a}, Pow, b), "await a ** b"},
		{"starred or", &Starred{Value: &BoolOp{Op: Or, Values: []Expr{a, b}}}, "*(a or b)"},
		{"walrus", &NamedExpr{Target: a, Value: num(1)}, "(a := 1)"},
		{"yield in call", &Call{Func: name("f"), Args: []Expr{&Yield{Value: a}}}, "f((yield a))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mustRender(t, tt.node))
		})
	}
}

func TestRenderContainers(t *testing.T) {
	t.Parallel()

	x, y := name("x"), name("y")

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"empty tuple", &Tuple{}, "()"},
		{"single tuple", &Tuple{Elts: []Expr{x}}, "(x, )"},
		{"pair tuple", &Tuple{Elts: []Expr{x, y}}, "(x, y)"},
		{"empty set", &Set{}, "set()"},
		{"set", &Set{Elts: []Expr{x, y}}, "{x, y}"},
		{"empty dict", &Dict{}, "{}"},
		{"dict with unpack", &Dict{Keys: []Expr{num("a"), nil}, Values: []Expr{num(1), y}}, `{"a": 1, **y}`},
		{"list", &List{Elts: []Expr{x, &Starred{Value: y}}}, "[x, *y]"},
		{"list comp", &ListComp{Elt: x, Generators: []*Comprehension{
			{Target: x, Iter: y, Ifs: []Expr{x}},
			{Target: y, Iter: x, IsAsync: 1},
		}}, "[x for x in y if x async for y in x]"},
		{"dict comp", &DictComp{Key: x, Value: y, Generators: []*Comprehension{{Target: &Tuple{Elts: []Expr{x, y}}, Iter: name("items")}}},
			"{x: y for (x, y) in items}"},
		{"set comp", &SetComp{Elt: x, Generators: []*Comprehension{{Target: x, Iter: y}}}, "{x for x in y}"},
		{"slice", &Subscript{Value: x, Slice: &Slice{Lower: num(1), Upper: num(2)}}, "x[1:2]"},
		{"open slice", &Subscript{Value: x, Slice: &Slice{Step: num(2)}}, "x[::2]"},
		{"extended slice", &Subscript{Value: x, Slice: &Tuple{Elts: []Expr{&Slice{Lower: num(1)}, y}}}, "x[1:, y]"},
		{"tuple index", &Subscript{Value: x, Slice: &Tuple{Elts: []Expr{num(1), y}}}, "x[(1, y)]"},
		{"call keywords", &Call{Func: x, Args: []Expr{y}, Keywords: []*Keyword{{Arg: "k", Value: num(1)}, {Value: name("kw")}}},
			"x(y, k=1, **kw)"},
		{"lambda params", &Lambda{Args: &Arguments{Args: []*Arg{{Arg: "a"}}, Defaults: []Expr{num(1)}, Vararg: &Arg{Arg: "rest"}}, Body: x},
			"lambda a=1, *rest: x"},
		{"conditional", &IfExp{Test: x, Body: num(1), Orelse: &IfExp{Test: y, Body: num(2), Orelse: num(3)}}, "1 if x else 2 if y else 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mustRender(t, tt.node))
		})
	}
}

func TestRenderLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"none", None, "None"},
		{"ellipsis", Ellipsis, "..."},
		{"true", true, "True"},
		{"int", 42, "42"},
		{"negative int", -7, "-7"},
		{"float whole", 1.0, "1.0"},
		{"float fraction", 0.1, "0.1"},
		{"float small", 0.0001, "0.0001"},
		{"float tiny", 1.5e-5, "1.5e-05"},
		{"float large", 1e16, "1e+16"},
		{"float below cutoff", 1e15, "1000000000000000.0"},
		{"infinity", math.Inf(1), "1e309"},
		{"imaginary", complex(0, 2), "2j"},
		{"string", "it's \"q\"\n", `"it's \"q\"\n"`},
		{"unicode", "héllo", `"héllo"`},
		{"control", "\x00\x7f", `"\x00\x7f"`},
		{"bytes", []byte{0, 'a', '"'}, `b"\x00a\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mustRender(t, NewConstant(tt.value)))
		})
	}
}

func TestRenderQuoteOption(t *testing.T) {
	t.Parallel()

	out, err := RenderWith(NewConstant(`say "hi"`), RenderOptions{Quote: '\''})
	require.NoError(t, err)
	assert.Equal(t, `'say "hi"'`, out)
}

func TestRenderFormattedString(t *testing.T) {
	t.Parallel()

	joined := &JoinedStr{Values: []Expr{
		num("a{"),
		&FormattedValue{
			Value:      name("x"),
			Conversion: ConversionRepr,
			FormatSpec: &JoinedStr{Values: []Expr{num(">10")}},
		},
		&FormattedValue{Value: &Subscript{Value: name("d"), Slice: num("k")}},
		&FormattedValue{Value: &Dict{}},
		&FormattedValue{Value: &Lambda{Body: name("y")}},
	}}

	assert.Equal(t, `f"a{{{x!r:>10}{d['k']}{ {}}{(lambda: y)}"`, mustRender(t, joined))
}

func TestRenderStatements(t *testing.T) {
	t.Parallel()

	fn := &FunctionDef{
		Name:          "f",
		DecoratorList: []Expr{name("cache"), &Call{Func: name("route"), Args: []Expr{num("/")}}},
		Args: &Arguments{
			PosOnlyArgs: []*Arg{{Arg: "a"}},
			Args:        []*Arg{{Arg: "b", Annotation: name("int")}},
			Defaults:    []Expr{num(1)},
			Vararg:      &Arg{Arg: "args"},
			KwOnlyArgs:  []*Arg{{Arg: "c"}, {Arg: "d"}},
			KwDefaults:  []Expr{nil, num(2)},
			Kwarg:       &Arg{Arg: "kw"},
		},
		Returns: name("int"),
		Body: []Stmt{
			&ExprStmt{Value: num("Doc.\n\n    More.")},
			&Return{Value: name("a")},
		},
	}

	want := `@cache
@route("/")
def f(a, /, b: int = 1, *args, c, d=2, **kw) -> int:
    """Doc.

    More."""
    return a`

	assert.Equal(t, want, mustRender(t, fn))
}

func TestRenderBlocks(t *testing.T) {
	t.Parallel()

	x, y := name("x"), name("y")
	call := func(fn string) Stmt { return &ExprStmt{Value: &Call{Func: name(fn)}} }

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"elif chain", &If{Test: x, Body: []Stmt{call("a")}, Orelse: []Stmt{
			&If{Test: y, Body: []Stmt{call("b")}, Orelse: []Stmt{call("c")}},
		}}, "if x:\n    a()\nelif y:\n    b()\nelse:\n    c()"},
		{"else with two statements", &If{Test: x, Body: []Stmt{&Pass{}}, Orelse: []Stmt{
			&If{Test: y, Body: []Stmt{&Pass{}}}, call("c"),
		}}, "if x:\n    pass\nelse:\n    if y:\n        pass\n    c()"},
		{"empty body", &While{Test: x}, "while x:\n    pass"},
		{"while else", &While{Test: x, Body: []Stmt{&Break{}}, Orelse: []Stmt{&Continue{}}}, "while x:\n    break\nelse:\n    continue"},
		{"for tuple target", &For{Target: &Tuple{Elts: []Expr{x, y}}, Iter: name("pairs"), Body: []Stmt{&Pass{}}},
			"for (x, y) in pairs:\n    pass"},
		{"async with", &AsyncWith{Items: []*WithItem{{ContextExpr: call("open").(*ExprStmt).Value, OptionalVars: x}, {ContextExpr: y}},
			Body: []Stmt{&Pass{}}}, "async with open() as x, y:\n    pass"},
		{"try", &Try{
			Body:      []Stmt{call("a")},
			Handlers:  []*ExceptHandler{{Type: name("ValueError"), Name: "err", Body: []Stmt{&Raise{}}}, {Body: []Stmt{&Pass{}}}},
			Orelse:    []Stmt{call("b")},
			Finalbody: []Stmt{call("c")},
		}, "try:\n    a()\nexcept ValueError as err:\n    raise\nexcept:\n    pass\nelse:\n    b()\nfinally:\n    c()"},
		{"raise from", &Raise{Exc: name("E"), Cause: x}, "raise E from x"},
		{"class", &ClassDef{Name: "C", Bases: []Expr{name("B")}, Keywords: []*Keyword{{Arg: "metaclass", Value: name("M")}}},
			"class C(B, metaclass=M):\n    pass"},
		{"bare class", &ClassDef{Name: "C", Body: []Stmt{&ExprStmt{Value: num("Doc.")}}}, "class C:\n    \"\"\"Doc.\"\"\""},
		{"relative import", &ImportFrom{Module: "pkg", Level: 2, Names: []*Alias{{Name: "a", Asname: "b"}, {Name: "c"}}},
			"from ..pkg import a as b, c"},
		{"dot import", &ImportFrom{Level: 1, Names: []*Alias{{Name: "x"}}}, "from . import x"},
		{"import", &Import{Names: []*Alias{{Name: "os.path"}}}, "import os.path"},
		{"chained assign", &Assign{Targets: []Expr{x, y}, Value: &Yield{}}, "x = y = yield"},
		{"aug assign", &AugAssign{Target: x, Op: FloorDiv, Value: num(2)}, "x //= 2"},
		{"ann assign", &AnnAssign{Target: x, Annotation: name("int"), Value: num(1)}, "x: int = 1"},
		{"ann assign parenthesized", &AnnAssign{Target: x, Annotation: name("int"), Simple: Ptr(0)}, "(x): int"},
		{"return tuple", &Return{Value: &Tuple{Elts: []Expr{x, y}}}, "return (x, y)"},
		{"return yield", &Return{Value: &Yield{Value: x}}, "return (yield x)"},
		{"global", &Global{Names: []string{"a", "b"}}, "global a, b"},
		{"assert", &Assert{Test: x, Msg: num("m")}, `assert x, "m"`},
		{"delete", &Delete{Targets: []Expr{x, &Subscript{Value: y, Slice: num(0)}}}, "del x, y[0]"},
		{"module docstring", &Module{Body: []Stmt{&ExprStmt{Value: num("Mod.")}, &Pass{}}}, "\"\"\"Mod.\"\"\"\npass"},
		{"empty module", &Module{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mustRender(t, tt.node))
		})
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing operand", func(t *testing.T) {
		t.Parallel()

		_, err := Render(&BinOp{Left: name("a"), Op: Add})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingField)

		var fieldErr *FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, KindBinOp, fieldErr.Kind)
		assert.Equal(t, "right", fieldErr.Field)
	})

	t.Run("unregistered raw node", func(t *testing.T) {
		t.Parallel()

		_, err := Render(&ExprStmt{Value: NewRaw("MatchValue")})
		assert.ErrorIs(t, err, ErrUnrenderable)
	})

	t.Run("context", func(t *testing.T) {
		t.Parallel()

		_, err := Render(Load)
		assert.ErrorIs(t, err, ErrUnrenderable)
	})

	t.Run("mismatched compare", func(t *testing.T) {
		t.Parallel()

		_, err := Render(&Compare{Left: name("a"), Ops: []CmpOperator{Lt}})
		assert.ErrorIs(t, err, ErrUnrenderable)
	})
}

func TestRenderIndentOption(t *testing.T) {
	t.Parallel()

	out, err := RenderWith(&If{Test: name("x"), Body: []Stmt{&Pass{}}}, RenderOptions{Indent: 2})
	require.NoError(t, err)
	assert.Equal(t, "if x:\n  pass", out)
}
