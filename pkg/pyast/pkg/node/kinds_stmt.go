package node

// Statement and root kind names.
const (
	KindFunctionDef      Kind = "FunctionDef"
	KindAsyncFunctionDef Kind = "AsyncFunctionDef"
	KindClassDef         Kind = "ClassDef"
	KindReturn           Kind = "Return"
	KindDelete           Kind = "Delete"
	KindAssign           Kind = "Assign"
	KindAugAssign        Kind = "AugAssign"
	KindAnnAssign        Kind = "AnnAssign"
	KindFor              Kind = "For"
	KindAsyncFor         Kind = "AsyncFor"
	KindWhile            Kind = "While"
	KindIf               Kind = "If"
	KindWith             Kind = "With"
	KindAsyncWith        Kind = "AsyncWith"
	KindRaise            Kind = "Raise"
	KindTry              Kind = "Try"
	KindAssert           Kind = "Assert"
	KindImport           Kind = "Import"
	KindImportFrom       Kind = "ImportFrom"
	KindGlobal           Kind = "Global"
	KindNonlocal         Kind = "Nonlocal"
	KindExpr             Kind = "Expr"
	KindPass             Kind = "Pass"
	KindBreak            Kind = "Break"
	KindContinue         Kind = "Continue"

	KindModule      Kind = "Module"
	KindExpression  Kind = "Expression"
	KindInteractive Kind = "Interactive"
)

// FunctionDef is a `def` statement.
type FunctionDef struct {
	stmtBase
	Name          string     `py:"name"`
	Args          *Arguments `py:"args"`
	Body          []Stmt     `py:"body"`
	DecoratorList []Expr     `py:"decorator_list"`
	Returns       Expr       `py:"returns,optional"`
}

// AsyncFunctionDef is an `async def` statement.
type AsyncFunctionDef struct {
	stmtBase
	Name          string     `py:"name"`
	Args          *Arguments `py:"args"`
	Body          []Stmt     `py:"body"`
	DecoratorList []Expr     `py:"decorator_list"`
	Returns       Expr       `py:"returns,optional"`
}

// ClassDef is a `class` statement.
type ClassDef struct {
	stmtBase
	Name          string     `py:"name"`
	Bases         []Expr     `py:"bases"`
	Keywords      []*Keyword `py:"keywords"`
	Body          []Stmt     `py:"body"`
	DecoratorList []Expr     `py:"decorator_list"`
}

// Return is `return [value]`.
type Return struct {
	stmtBase
	Value Expr `py:"value,optional"`
}

// Delete is `del targets`.
type Delete struct {
	stmtBase
	Targets []Expr `py:"targets"`
}

// Assign is `t1 = t2 = value`.
type Assign struct {
	stmtBase
	Targets []Expr `py:"targets"`
	Value   Expr   `py:"value"`
}

// AugAssign is `target op= value`.
type AugAssign struct {
	stmtBase
	Target Expr           `py:"target"`
	Op     BinaryOperator `py:"op"`
	Value  Expr           `py:"value"`
}

// AnnAssign is `target: annotation [= value]`. Simple is 1 for a bare name
// target and 0 for a parenthesized or complex one; nil resolves to 1.
type AnnAssign struct {
	stmtBase
	Target     Expr `py:"target"`
	Annotation Expr `py:"annotation"`
	Value      Expr `py:"value,optional"`
	Simple     *int `py:"simple"`
}

// For is a `for` loop with an optional `else` block.
type For struct {
	stmtBase
	Target Expr   `py:"target"`
	Iter   Expr   `py:"iter"`
	Body   []Stmt `py:"body"`
	Orelse []Stmt `py:"orelse"`
}

// AsyncFor is an `async for` loop.
type AsyncFor struct {
	stmtBase
	Target Expr   `py:"target"`
	Iter   Expr   `py:"iter"`
	Body   []Stmt `py:"body"`
	Orelse []Stmt `py:"orelse"`
}

// While is a `while` loop with an optional `else` block.
type While struct {
	stmtBase
	Test   Expr   `py:"test"`
	Body   []Stmt `py:"body"`
	Orelse []Stmt `py:"orelse"`
}

// If is an `if` statement; an orelse holding a single If renders as elif.
type If struct {
	stmtBase
	Test   Expr   `py:"test"`
	Body   []Stmt `py:"body"`
	Orelse []Stmt `py:"orelse"`
}

// With is a `with` statement.
type With struct {
	stmtBase
	Items []*WithItem `py:"items"`
	Body  []Stmt      `py:"body"`
}

// AsyncWith is an `async with` statement.
type AsyncWith struct {
	stmtBase
	Items []*WithItem `py:"items"`
	Body  []Stmt      `py:"body"`
}

// Raise is `raise [exc [from cause]]`.
type Raise struct {
	stmtBase
	Exc   Expr `py:"exc,optional"`
	Cause Expr `py:"cause,optional"`
}

// Try is `try/except/else/finally`.
type Try struct {
	stmtBase
	Body      []Stmt           `py:"body"`
	Handlers  []*ExceptHandler `py:"handlers"`
	Orelse    []Stmt           `py:"orelse"`
	Finalbody []Stmt           `py:"finalbody"`
}

// Assert is `assert test[, msg]`.
type Assert struct {
	stmtBase
	Test Expr `py:"test"`
	Msg  Expr `py:"msg,optional"`
}

// Import is `import a, b as c`.
type Import struct {
	stmtBase
	Names []*Alias `py:"names"`
}

// ImportFrom is `from .module import names`.
type ImportFrom struct {
	stmtBase
	Module string   `py:"module,optional"`
	Names  []*Alias `py:"names"`
	Level  int      `py:"level"`
}

// Global is `global a, b`.
type Global struct {
	stmtBase
	Names []string `py:"names"`
}

// Nonlocal is `nonlocal a, b`.
type Nonlocal struct {
	stmtBase
	Names []string `py:"names"`
}

// ExprStmt is an expression evaluated for effect (Python's `Expr` statement).
type ExprStmt struct {
	stmtBase
	Value Expr `py:"value"`
}

// Pass is `pass`.
type Pass struct{ stmtBase }

// Break is `break`.
type Break struct{ stmtBase }

// Continue is `continue`.
type Continue struct{ stmtBase }

// Module is a whole program compiled in exec mode.
type Module struct {
	rootBase
	Body []Stmt `py:"body"`
}

// Expression is a single expression compiled in eval mode.
type Expression struct {
	rootBase
	Body Expr `py:"body"`
}

// Interactive is a statement list compiled in single mode.
type Interactive struct {
	rootBase
	Body []Stmt `py:"body"`
}

func (*FunctionDef) Kind() Kind      { return KindFunctionDef }
func (*AsyncFunctionDef) Kind() Kind { return KindAsyncFunctionDef }
func (*ClassDef) Kind() Kind         { return KindClassDef }
func (*Return) Kind() Kind           { return KindReturn }
func (*Delete) Kind() Kind           { return KindDelete }
func (*Assign) Kind() Kind           { return KindAssign }
func (*AugAssign) Kind() Kind        { return KindAugAssign }
func (*AnnAssign) Kind() Kind        { return KindAnnAssign }
func (*For) Kind() Kind              { return KindFor }
func (*AsyncFor) Kind() Kind         { return KindAsyncFor }
func (*While) Kind() Kind            { return KindWhile }
func (*If) Kind() Kind               { return KindIf }
func (*With) Kind() Kind             { return KindWith }
func (*AsyncWith) Kind() Kind        { return KindAsyncWith }
func (*Raise) Kind() Kind            { return KindRaise }
func (*Try) Kind() Kind              { return KindTry }
func (*Assert) Kind() Kind           { return KindAssert }
func (*Import) Kind() Kind           { return KindImport }
func (*ImportFrom) Kind() Kind       { return KindImportFrom }
func (*Global) Kind() Kind           { return KindGlobal }
func (*Nonlocal) Kind() Kind         { return KindNonlocal }
func (*ExprStmt) Kind() Kind         { return KindExpr }
func (*Pass) Kind() Kind             { return KindPass }
func (*Break) Kind() Kind            { return KindBreak }
func (*Continue) Kind() Kind         { return KindContinue }
func (*Module) Kind() Kind           { return KindModule }
func (*Expression) Kind() Kind       { return KindExpression }
func (*Interactive) Kind() Kind      { return KindInteractive }
