package node

// Data-node kind names.
const (
	KindArguments     Kind = "arguments"
	KindArg           Kind = "arg"
	KindKeyword       Kind = "keyword"
	KindAlias         Kind = "alias"
	KindWithItem      Kind = "withitem"
	KindComprehension Kind = "comprehension"
	KindExceptHandler Kind = "ExceptHandler"
)

// Arguments is a function or lambda signature. Defaults align with the tail of
// PosOnlyArgs+Args; KwDefaults aligns one-to-one with KwOnlyArgs and holds nil
// for keyword-only parameters without a default.
type Arguments struct {
	dataBase
	PosOnlyArgs []*Arg `py:"posonlyargs"`
	Args        []*Arg `py:"args"`
	Vararg      *Arg   `py:"vararg,optional"`
	KwOnlyArgs  []*Arg `py:"kwonlyargs"`
	KwDefaults  []Expr `py:"kw_defaults"`
	Kwarg       *Arg   `py:"kwarg,optional"`
	Defaults    []Expr `py:"defaults"`
}

// Arg is a single parameter.
type Arg struct {
	dataBase
	Arg        string `py:"arg"`
	Annotation Expr   `py:"annotation,optional"`
}

// Keyword is a call keyword argument; an empty Arg marks `**value`.
type Keyword struct {
	dataBase
	Arg   string `py:"arg,optional"`
	Value Expr   `py:"value"`
}

// Alias is an imported name with an optional `as` name.
type Alias struct {
	dataBase
	Name   string `py:"name"`
	Asname string `py:"asname,optional"`
}

// WithItem is one `context as vars` entry of a with statement.
type WithItem struct {
	dataBase
	ContextExpr  Expr `py:"context_expr"`
	OptionalVars Expr `py:"optional_vars,optional"`
}

// Comprehension is one `for target in iter if cond` clause.
type Comprehension struct {
	dataBase
	Target  Expr   `py:"target"`
	Iter    Expr   `py:"iter"`
	Ifs     []Expr `py:"ifs"`
	IsAsync int    `py:"is_async"`
}

// ExceptHandler is an `except [type [as name]]:` clause.
type ExceptHandler struct {
	dataBase
	Type Expr   `py:"type,optional"`
	Name string `py:"name,optional"`
	Body []Stmt `py:"body"`
}

func (*Arguments) Kind() Kind     { return KindArguments }
func (*Arg) Kind() Kind           { return KindArg }
func (*Keyword) Kind() Kind       { return KindKeyword }
func (*Alias) Kind() Kind         { return KindAlias }
func (*WithItem) Kind() Kind      { return KindWithItem }
func (*Comprehension) Kind() Kind { return KindComprehension }
func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
