package node

import (
	"reflect"
	"slices"
)

// KindInfo describes one registered kind.
type KindInfo struct {
	Kind   Kind
	Family Family
	// Fields lists the declared fields in order.
	Fields []FieldInfo

	create   func() Node
	defaults map[string]func() any
}

// New allocates a fresh, empty node of the kind. Operator and context kinds
// return their singleton value.
func (info *KindInfo) New() Node {
	return info.create()
}

// HasDefault reports whether the field has an entry in the default table.
func (info *KindInfo) HasDefault(field string) bool {
	_, ok := info.defaults[field]

	return ok
}

// Default returns a fresh copy of the field default.
func (info *KindInfo) Default(field string) (any, bool) {
	fn, ok := info.defaults[field]
	if !ok {
		return nil, false
	}

	return fn(), true
}

type defaults map[string]func() any

func emptyExprs() any     { return []Expr{} }
func emptyStmts() any     { return []Stmt{} }
func emptyKeywords() any  { return []*Keyword{} }
func emptyArgs() any      { return []*Arg{} }
func loadContext() any    { return Load }
func zeroInt() any        { return 0 }
func noConversion() any   { return ConversionNone }
func emptyArguments() any { return &Arguments{} }
func simpleTarget() any   { return Ptr(1) }
func emptyString() any    { return "" }

func withContext(extra defaults) defaults {
	extra["ctx"] = loadContext

	return extra
}

// registry is filled in two phases: the kinds above are plain types, and this
// table binds names to constructors so Wrap never imports concrete kinds.
var registry = buildRegistry() //nolint:gochecknoglobals // immutable kind table

func buildRegistry() map[Kind]*KindInfo {
	reg := make(map[Kind]*KindInfo)

	add := func(family Family, create func() Node, table defaults) {
		sample := create()
		info := &KindInfo{
			Kind:     sample.Kind(),
			Family:   family,
			create:   create,
			defaults: table,
		}

		info.Fields = fieldsOf(reflect.TypeOf(sample))
		for idx := range info.Fields {
			info.Fields[idx].HasDefault = info.HasDefault(info.Fields[idx].Name)
		}

		reg[info.Kind] = info
	}

	addExpressions(add)
	addStatements(add)
	addDataNodes(add)
	addOperators(reg)

	return reg
}

type registerFunc func(family Family, create func() Node, table defaults)

func addExpressions(add registerFunc) {
	add(FamilyExpr, func() Node { return &BoolOp{} }, nil)
	add(FamilyExpr, func() Node { return &NamedExpr{} }, nil)
	add(FamilyExpr, func() Node { return &BinOp{} }, nil)
	add(FamilyExpr, func() Node { return &UnaryOp{} }, nil)
	add(FamilyExpr, func() Node { return &Lambda{} }, defaults{"args": emptyArguments})
	add(FamilyExpr, func() Node { return &IfExp{} }, nil)
	add(FamilyExpr, func() Node { return &Dict{} }, defaults{"keys": emptyExprs, "values": emptyExprs})
	add(FamilyExpr, func() Node { return &Set{} }, defaults{"elts": emptyExprs})
	add(FamilyExpr, func() Node { return &ListComp{} }, nil)
	add(FamilyExpr, func() Node { return &SetComp{} }, nil)
	add(FamilyExpr, func() Node { return &DictComp{} }, nil)
	add(FamilyExpr, func() Node { return &GeneratorExp{} }, nil)
	add(FamilyExpr, func() Node { return &Await{} }, nil)
	add(FamilyExpr, func() Node { return &Yield{} }, nil)
	add(FamilyExpr, func() Node { return &YieldFrom{} }, nil)
	add(FamilyExpr, func() Node { return &Compare{} }, nil)
	add(FamilyExpr, func() Node { return &Call{} }, defaults{"args": emptyExprs, "keywords": emptyKeywords})
	add(FamilyExpr, func() Node { return &FormattedValue{} }, defaults{"conversion": noConversion})
	add(FamilyExpr, func() Node { return &JoinedStr{} }, defaults{"values": emptyExprs})
	add(FamilyExpr, func() Node { return &Constant{} }, nil)
	add(FamilyExpr, func() Node { return &Attribute{} }, withContext(defaults{}))
	add(FamilyExpr, func() Node { return &Subscript{} }, withContext(defaults{}))
	add(FamilyExpr, func() Node { return &Starred{} }, withContext(defaults{}))
	add(FamilyExpr, func() Node { return &Name{} }, withContext(defaults{}))
	add(FamilyExpr, func() Node { return &List{} }, withContext(defaults{"elts": emptyExprs}))
	add(FamilyExpr, func() Node { return &Tuple{} }, withContext(defaults{"elts": emptyExprs}))
	add(FamilyExpr, func() Node { return &Slice{} }, nil)
}

func addStatements(add registerFunc) {
	funcDefaults := func() defaults {
		return defaults{"args": emptyArguments, "decorator_list": emptyExprs}
	}

	add(FamilyStmt, func() Node { return &FunctionDef{} }, funcDefaults())
	add(FamilyStmt, func() Node { return &AsyncFunctionDef{} }, funcDefaults())
	add(FamilyStmt, func() Node { return &ClassDef{} }, defaults{
		"bases": emptyExprs, "keywords": emptyKeywords, "decorator_list": emptyExprs,
	})
	add(FamilyStmt, func() Node { return &Return{} }, nil)
	add(FamilyStmt, func() Node { return &Delete{} }, nil)
	add(FamilyStmt, func() Node { return &Assign{} }, nil)
	add(FamilyStmt, func() Node { return &AugAssign{} }, nil)
	add(FamilyStmt, func() Node { return &AnnAssign{} }, defaults{"simple": simpleTarget})
	add(FamilyStmt, func() Node { return &For{} }, defaults{"orelse": emptyStmts})
	add(FamilyStmt, func() Node { return &AsyncFor{} }, defaults{"orelse": emptyStmts})
	add(FamilyStmt, func() Node { return &While{} }, defaults{"orelse": emptyStmts})
	add(FamilyStmt, func() Node { return &If{} }, defaults{"orelse": emptyStmts})
	add(FamilyStmt, func() Node { return &With{} }, nil)
	add(FamilyStmt, func() Node { return &AsyncWith{} }, nil)
	add(FamilyStmt, func() Node { return &Raise{} }, nil)
	add(FamilyStmt, func() Node { return &Try{} }, defaults{
		"handlers": func() any { return []*ExceptHandler{} }, "orelse": emptyStmts, "finalbody": emptyStmts,
	})
	add(FamilyStmt, func() Node { return &Assert{} }, nil)
	add(FamilyStmt, func() Node { return &Import{} }, nil)
	add(FamilyStmt, func() Node { return &ImportFrom{} }, defaults{"level": zeroInt})
	add(FamilyStmt, func() Node { return &Global{} }, nil)
	add(FamilyStmt, func() Node { return &Nonlocal{} }, nil)
	add(FamilyStmt, func() Node { return &ExprStmt{} }, nil)
	add(FamilyStmt, func() Node { return &Pass{} }, nil)
	add(FamilyStmt, func() Node { return &Break{} }, nil)
	add(FamilyStmt, func() Node { return &Continue{} }, nil)

	add(FamilyRoot, func() Node { return &Module{} }, defaults{"body": emptyStmts})
	add(FamilyRoot, func() Node { return &Expression{} }, nil)
	add(FamilyRoot, func() Node { return &Interactive{} }, defaults{"body": emptyStmts})
}

func addDataNodes(add registerFunc) {
	add(FamilyData, func() Node { return &Arguments{} }, defaults{
		"posonlyargs": emptyArgs, "args": emptyArgs, "kwonlyargs": emptyArgs,
		"kw_defaults": emptyExprs, "defaults": emptyExprs,
	})
	add(FamilyData, func() Node { return &Arg{} }, nil)
	add(FamilyData, func() Node { return &Keyword{} }, defaults{"arg": emptyString})
	add(FamilyData, func() Node { return &Alias{} }, defaults{"asname": emptyString})
	add(FamilyData, func() Node { return &WithItem{} }, nil)
	add(FamilyData, func() Node { return &Comprehension{} }, defaults{"ifs": emptyExprs, "is_async": zeroInt})
	add(FamilyData, func() Node { return &ExceptHandler{} }, nil)
}

func addOperators(reg map[Kind]*KindInfo) {
	for _, info := range Operators() {
		op, _ := operatorByName(info.Name)
		reg[info.Name] = &KindInfo{Kind: info.Name, Family: FamilyOperator, create: func() Node { return op }}
	}

	for ctx := Load; ctx <= Del; ctx++ {
		value := ctx
		reg[ctx.Kind()] = &KindInfo{Kind: ctx.Kind(), Family: FamilyContext, create: func() Node { return value }}
	}
}

// Lookup returns the registered description of kind.
func Lookup(kind Kind) (*KindInfo, bool) {
	info, ok := registry[kind]

	return info, ok
}

// Kinds returns every registered kind sorted by family, then name.
func Kinds() []*KindInfo {
	out := make([]*KindInfo, 0, len(registry))
	for _, info := range registry {
		out = append(out, info)
	}

	slices.SortFunc(out, func(left, right *KindInfo) int {
		if left.Family != right.Family {
			return int(left.Family) - int(right.Family)
		}

		switch {
		case left.Kind < right.Kind:
			return -1
		case left.Kind > right.Kind:
			return 1
		default:
			return 0
		}
	})

	return out
}

// FamilyOf returns the family of a node, FamilyRaw for unregistered kinds.
func FamilyOf(n Node) Family {
	if _, ok := n.(*RawNode); ok {
		return FamilyRaw
	}

	if info, ok := registry[n.Kind()]; ok {
		return info.Family
	}

	return FamilyRaw
}
