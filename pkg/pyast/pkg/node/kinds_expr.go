package node

// Expression kind names.
const (
	KindBoolOp         Kind = "BoolOp"
	KindNamedExpr      Kind = "NamedExpr"
	KindBinOp          Kind = "BinOp"
	KindUnaryOp        Kind = "UnaryOp"
	KindLambda         Kind = "Lambda"
	KindIfExp          Kind = "IfExp"
	KindDict           Kind = "Dict"
	KindSet            Kind = "Set"
	KindListComp       Kind = "ListComp"
	KindSetComp        Kind = "SetComp"
	KindDictComp       Kind = "DictComp"
	KindGeneratorExp   Kind = "GeneratorExp"
	KindAwait          Kind = "Await"
	KindYield          Kind = "Yield"
	KindYieldFrom      Kind = "YieldFrom"
	KindCompare        Kind = "Compare"
	KindCall           Kind = "Call"
	KindFormattedValue Kind = "FormattedValue"
	KindJoinedStr      Kind = "JoinedStr"
	KindConstant       Kind = "Constant"
	KindAttribute      Kind = "Attribute"
	KindSubscript      Kind = "Subscript"
	KindStarred        Kind = "Starred"
	KindName           Kind = "Name"
	KindList           Kind = "List"
	KindTuple          Kind = "Tuple"
	KindSlice          Kind = "Slice"
)

// BoolOp is a chain of `and` or `or`.
type BoolOp struct {
	exprBase
	Op     BoolOperator `py:"op"`
	Values []Expr       `py:"values"`
}

// NamedExpr is an assignment expression `target := value`.
type NamedExpr struct {
	exprBase
	Target Expr `py:"target"`
	Value  Expr `py:"value"`
}

// BinOp is a binary operator application.
type BinOp struct {
	exprBase
	Left  Expr           `py:"left"`
	Op    BinaryOperator `py:"op"`
	Right Expr           `py:"right"`
}

// UnaryOp is a prefix operator application.
type UnaryOp struct {
	exprBase
	Op      UnaryOperator `py:"op"`
	Operand Expr          `py:"operand"`
}

// Lambda is an anonymous function expression.
type Lambda struct {
	exprBase
	Args *Arguments `py:"args"`
	Body Expr       `py:"body"`
}

// IfExp is a conditional expression `body if test else orelse`.
type IfExp struct {
	exprBase
	Test   Expr `py:"test"`
	Body   Expr `py:"body"`
	Orelse Expr `py:"orelse"`
}

// Dict is a dict display. A nil key marks a `**value` unpacking.
type Dict struct {
	exprBase
	Keys   []Expr `py:"keys"`
	Values []Expr `py:"values"`
}

// Set is a set display.
type Set struct {
	exprBase
	Elts []Expr `py:"elts"`
}

// ListComp is a list comprehension.
type ListComp struct {
	exprBase
	Elt        Expr             `py:"elt"`
	Generators []*Comprehension `py:"generators"`
}

// SetComp is a set comprehension.
type SetComp struct {
	exprBase
	Elt        Expr             `py:"elt"`
	Generators []*Comprehension `py:"generators"`
}

// DictComp is a dict comprehension.
type DictComp struct {
	exprBase
	Key        Expr             `py:"key"`
	Value      Expr             `py:"value"`
	Generators []*Comprehension `py:"generators"`
}

// GeneratorExp is a generator expression.
type GeneratorExp struct {
	exprBase
	Elt        Expr             `py:"elt"`
	Generators []*Comprehension `py:"generators"`
}

// Await is `await value`.
type Await struct {
	exprBase
	Value Expr `py:"value"`
}

// Yield is `yield [value]`.
type Yield struct {
	exprBase
	Value Expr `py:"value,optional"`
}

// YieldFrom is `yield from value`.
type YieldFrom struct {
	exprBase
	Value Expr `py:"value"`
}

// Compare is a comparison chain `left op1 c1 op2 c2 ...`.
type Compare struct {
	exprBase
	Left        Expr          `py:"left"`
	Ops         []CmpOperator `py:"ops"`
	Comparators []Expr        `py:"comparators"`
}

// Call is a call with positional (possibly starred) and keyword arguments.
type Call struct {
	exprBase
	Func     Expr       `py:"func"`
	Args     []Expr     `py:"args"`
	Keywords []*Keyword `py:"keywords"`
}

// Conversion flags of a FormattedValue.
const (
	ConversionNone  = -1
	ConversionStr   = 's'
	ConversionRepr  = 'r'
	ConversionASCII = 'a'
)

// FormattedValue is one `{value!conv:spec}` segment of an f-string. A zero
// Conversion is unset and resolves to ConversionNone.
type FormattedValue struct {
	exprBase
	Value      Expr       `py:"value"`
	Conversion int        `py:"conversion"`
	FormatSpec *JoinedStr `py:"format_spec,optional"`
}

// JoinedStr is an f-string made of Constant and FormattedValue segments.
type JoinedStr struct {
	exprBase
	Values []Expr `py:"values"`
}

// Constant is the unified literal kind. Value holds None, Ellipsis, bool,
// int64, *big.Int, float64, complex128, string or []byte.
type Constant struct {
	exprBase
	Value any `py:"value,bypass"`
}

// Attribute is `value.attr`.
type Attribute struct {
	exprBase
	Value Expr        `py:"value"`
	Attr  string      `py:"attr"`
	Ctx   ExprContext `py:"ctx"`
}

// Subscript is `value[slice]`.
type Subscript struct {
	exprBase
	Value Expr        `py:"value"`
	Slice Expr        `py:"slice"`
	Ctx   ExprContext `py:"ctx"`
}

// Starred is `*value` in calls, displays and assignment targets.
type Starred struct {
	exprBase
	Value Expr        `py:"value"`
	Ctx   ExprContext `py:"ctx"`
}

// Name is an identifier reference.
type Name struct {
	exprBase
	ID  string      `py:"id"`
	Ctx ExprContext `py:"ctx"`
}

// List is a list display.
type List struct {
	exprBase
	Elts []Expr      `py:"elts"`
	Ctx  ExprContext `py:"ctx"`
}

// Tuple is a tuple display.
type Tuple struct {
	exprBase
	Elts []Expr      `py:"elts"`
	Ctx  ExprContext `py:"ctx"`
}

// Slice is `lower:upper:step` inside a subscript.
type Slice struct {
	exprBase
	Lower Expr `py:"lower,optional"`
	Upper Expr `py:"upper,optional"`
	Step  Expr `py:"step,optional"`
}

func (*BoolOp) Kind() Kind         { return KindBoolOp }
func (*NamedExpr) Kind() Kind      { return KindNamedExpr }
func (*BinOp) Kind() Kind          { return KindBinOp }
func (*UnaryOp) Kind() Kind        { return KindUnaryOp }
func (*Lambda) Kind() Kind         { return KindLambda }
func (*IfExp) Kind() Kind          { return KindIfExp }
func (*Dict) Kind() Kind           { return KindDict }
func (*Set) Kind() Kind            { return KindSet }
func (*ListComp) Kind() Kind       { return KindListComp }
func (*SetComp) Kind() Kind        { return KindSetComp }
func (*DictComp) Kind() Kind       { return KindDictComp }
func (*GeneratorExp) Kind() Kind   { return KindGeneratorExp }
func (*Await) Kind() Kind          { return KindAwait }
func (*Yield) Kind() Kind          { return KindYield }
func (*YieldFrom) Kind() Kind      { return KindYieldFrom }
func (*Compare) Kind() Kind        { return KindCompare }
func (*Call) Kind() Kind           { return KindCall }
func (*FormattedValue) Kind() Kind { return KindFormattedValue }
func (*JoinedStr) Kind() Kind      { return KindJoinedStr }
func (*Constant) Kind() Kind       { return KindConstant }
func (*Attribute) Kind() Kind      { return KindAttribute }
func (*Subscript) Kind() Kind      { return KindSubscript }
func (*Starred) Kind() Kind        { return KindStarred }
func (*Name) Kind() Kind           { return KindName }
func (*List) Kind() Kind           { return KindList }
func (*Tuple) Kind() Kind          { return KindTuple }
func (*Slice) Kind() Kind          { return KindSlice }

// NoneType is the type of the None literal value.
type NoneType struct{}

// EllipsisType is the type of the Ellipsis literal value.
type EllipsisType struct{}

// Literal sentinels for Constant values.
var (
	None     = NoneType{}     //nolint:gochecknoglobals // literal sentinel
	Ellipsis = EllipsisType{} //nolint:gochecknoglobals // literal sentinel
)

// NewName returns a Name in load context.
func NewName(id string) *Name {
	return &Name{ID: id}
}

// NewConstant boxes a literal value into a Constant.
func NewConstant(value any) *Constant {
	return &Constant{Value: normalizeLiteral(value)}
}
