package node

//go:generate go run ../../../../tools/opgen -o operators_gen.go

// OperatorFamily identifies which operator table an operator belongs to.
type OperatorFamily string

// Operator families, named after the Python ast base classes.
const (
	FamilyBoolOp  OperatorFamily = "boolop"
	FamilyBinOp   OperatorFamily = "operator"
	FamilyCmpOp   OperatorFamily = "cmpop"
	FamilyUnaryOp OperatorFamily = "unaryop"
)

// OperatorInfo is one row of the operator catalog.
type OperatorInfo struct {
	Family OperatorFamily
	Name   Kind
	Symbol string
	// Method is the name of the sugar method on Ex; empty when none is generated.
	Method string
	// Precedence is the binding rank, 0 for operators without one.
	Precedence int
}

// BoolOperator is the operator of a BoolOp.
type BoolOperator int

// Boolean operators.
const (
	And BoolOperator = iota + 1
	Or
)

// BinaryOperator is the operator of a BinOp or AugAssign.
type BinaryOperator int

// Binary operators.
const (
	Add BinaryOperator = iota + 1
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

// UnaryOperator is the operator of a UnaryOp.
type UnaryOperator int

// Unary operators.
const (
	Invert UnaryOperator = iota + 1
	Not
	UAdd
	USub
)

// CmpOperator is one operator of a Compare chain.
type CmpOperator int

// Comparison operators.
const (
	Eq CmpOperator = iota + 1
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

// ExprContext marks how a Name, Attribute, Subscript, Starred, List or Tuple is used.
type ExprContext int

// Expression contexts.
const (
	Load ExprContext = iota + 1
	Store
	Del
)

var boolOperators = map[BoolOperator]OperatorInfo{
	Or:  {Family: FamilyBoolOp, Name: "Or", Symbol: "or", Method: "Or", Precedence: 1},
	And: {Family: FamilyBoolOp, Name: "And", Symbol: "and", Method: "And", Precedence: 2},
}

var binaryOperators = map[BinaryOperator]OperatorInfo{
	BitOr:    {Family: FamilyBinOp, Name: "BitOr", Symbol: "|", Method: "BitOr", Precedence: 3},
	BitXor:   {Family: FamilyBinOp, Name: "BitXor", Symbol: "^", Method: "BitXor", Precedence: 4},
	BitAnd:   {Family: FamilyBinOp, Name: "BitAnd", Symbol: "&", Method: "BitAnd", Precedence: 5},
	LShift:   {Family: FamilyBinOp, Name: "LShift", Symbol: "<<", Method: "LShift", Precedence: 6},
	RShift:   {Family: FamilyBinOp, Name: "RShift", Symbol: ">>", Method: "RShift", Precedence: 6},
	Add:      {Family: FamilyBinOp, Name: "Add", Symbol: "+", Method: "Add", Precedence: 7},
	Sub:      {Family: FamilyBinOp, Name: "Sub", Symbol: "-", Method: "Sub", Precedence: 7},
	Mult:     {Family: FamilyBinOp, Name: "Mult", Symbol: "*", Method: "Mul", Precedence: 8},
	MatMult:  {Family: FamilyBinOp, Name: "MatMult", Symbol: "@", Method: "MatMul", Precedence: 8},
	Div:      {Family: FamilyBinOp, Name: "Div", Symbol: "/", Method: "Div", Precedence: 8},
	FloorDiv: {Family: FamilyBinOp, Name: "FloorDiv", Symbol: "//", Method: "FloorDiv", Precedence: 8},
	Mod:      {Family: FamilyBinOp, Name: "Mod", Symbol: "%", Method: "Mod", Precedence: 8},
	Pow:      {Family: FamilyBinOp, Name: "Pow", Symbol: "**", Method: "Pow", Precedence: 9},
}

var unaryOperators = map[UnaryOperator]OperatorInfo{
	Not:    {Family: FamilyUnaryOp, Name: "Not", Symbol: "not", Method: "Not"},
	Invert: {Family: FamilyUnaryOp, Name: "Invert", Symbol: "~", Method: "Invert"},
	UAdd:   {Family: FamilyUnaryOp, Name: "UAdd", Symbol: "+", Method: "Plus"},
	USub:   {Family: FamilyUnaryOp, Name: "USub", Symbol: "-", Method: "Neg"},
}

var cmpOperators = map[CmpOperator]OperatorInfo{
	Eq:    {Family: FamilyCmpOp, Name: "Eq", Symbol: "==", Method: "Eq"},
	NotEq: {Family: FamilyCmpOp, Name: "NotEq", Symbol: "!=", Method: "Ne"},
	Lt:    {Family: FamilyCmpOp, Name: "Lt", Symbol: "<", Method: "Lt"},
	LtE:   {Family: FamilyCmpOp, Name: "LtE", Symbol: "<=", Method: "Le"},
	Gt:    {Family: FamilyCmpOp, Name: "Gt", Symbol: ">", Method: "Gt"},
	GtE:   {Family: FamilyCmpOp, Name: "GtE", Symbol: ">=", Method: "Ge"},
	Is:    {Family: FamilyCmpOp, Name: "Is", Symbol: "is", Method: "Is"},
	IsNot: {Family: FamilyCmpOp, Name: "IsNot", Symbol: "is not", Method: "IsNot"},
	In:    {Family: FamilyCmpOp, Name: "In", Symbol: "in", Method: "In"},
	NotIn: {Family: FamilyCmpOp, Name: "NotIn", Symbol: "not in", Method: "NotIn"},
}

var contextNames = map[ExprContext]Kind{
	Load:  "Load",
	Store: "Store",
	Del:   "Del",
}

// Info returns the catalog row of op.
func (op BoolOperator) Info() OperatorInfo { return boolOperators[op] }

// Info returns the catalog row of op.
func (op BinaryOperator) Info() OperatorInfo { return binaryOperators[op] }

// Info returns the catalog row of op.
func (op UnaryOperator) Info() OperatorInfo { return unaryOperators[op] }

// Info returns the catalog row of op.
func (op CmpOperator) Info() OperatorInfo { return cmpOperators[op] }

// Kind implements Node.
func (op BoolOperator) Kind() Kind { return op.Info().Name }

// Kind implements Node.
func (op BinaryOperator) Kind() Kind { return op.Info().Name }

// Kind implements Node.
func (op UnaryOperator) Kind() Kind { return op.Info().Name }

// Kind implements Node.
func (op CmpOperator) Kind() Kind { return op.Info().Name }

// Kind implements Node.
func (ctx ExprContext) Kind() Kind { return contextNames[ctx] }

// Symbol returns the surface syntax of the operator.
func (op BoolOperator) Symbol() string { return op.Info().Symbol }

// Symbol returns the surface syntax of the operator.
func (op BinaryOperator) Symbol() string { return op.Info().Symbol }

// Symbol returns the surface syntax of the operator.
func (op UnaryOperator) Symbol() string { return op.Info().Symbol }

// Symbol returns the surface syntax of the operator.
func (op CmpOperator) Symbol() string { return op.Info().Symbol }

// Precedence returns the catalog binding rank.
func (op BoolOperator) Precedence() int { return op.Info().Precedence }

// Precedence returns the catalog binding rank.
func (op BinaryOperator) Precedence() int { return op.Info().Precedence }

// Operators and contexts carry no position.
func (BoolOperator) Pos() *Position   { return nil }
func (BinaryOperator) Pos() *Position { return nil }
func (UnaryOperator) Pos() *Position  { return nil }
func (CmpOperator) Pos() *Position    { return nil }
func (ExprContext) Pos() *Position    { return nil }

func (BoolOperator) SetPos(*Position)   {}
func (BinaryOperator) SetPos(*Position) {}
func (UnaryOperator) SetPos(*Position)  {}
func (CmpOperator) SetPos(*Position)    {}
func (ExprContext) SetPos(*Position)    {}

// Operators returns the whole catalog ordered by family and precedence.
func Operators() []OperatorInfo {
	out := make([]OperatorInfo, 0, len(boolOperators)+len(binaryOperators)+len(unaryOperators)+len(cmpOperators))

	for op := Or; op >= And; op-- {
		out = append(out, boolOperators[op])
	}

	for op := Add; op <= FloorDiv; op++ {
		out = append(out, binaryOperators[op])
	}

	for op := Invert; op <= USub; op++ {
		out = append(out, unaryOperators[op])
	}

	for op := Eq; op <= NotIn; op++ {
		out = append(out, cmpOperators[op])
	}

	return out
}

// operatorByName resolves a catalog or context name to its typed value.
func operatorByName(name Kind) (Node, bool) {
	for op, info := range boolOperators {
		if info.Name == name {
			return op, true
		}
	}

	for op, info := range binaryOperators {
		if info.Name == name {
			return op, true
		}
	}

	for op, info := range unaryOperators {
		if info.Name == name {
			return op, true
		}
	}

	for op, info := range cmpOperators {
		if info.Name == name {
			return op, true
		}
	}

	for ctx, ctxName := range contextNames {
		if ctxName == name {
			return ctx, true
		}
	}

	return nil, false
}
