// Package node provides the typed Python syntax tree used by pyforge: the node
// kinds, their field and default tables, the finalizer that normalizes trees,
// the renderer that turns them back into source text, and the helpers for
// building, walking, comparing and compiling them.
package node

import (
	"errors"
	"fmt"
)

// Kind identifies the concrete variant of a node. Values match the class names
// of Python's own ast module ("BinOp", "If", "Add", ...).
type Kind string

// Family groups kinds by the role they play in a tree.
type Family int

// Node families.
const (
	FamilyExpr Family = iota + 1
	FamilyStmt
	FamilyData
	FamilyOperator
	FamilyContext
	FamilyRoot
	FamilyRaw
)

// String returns the lowercase family name.
func (family Family) String() string {
	switch family {
	case FamilyExpr:
		return "expr"
	case FamilyStmt:
		return "stmt"
	case FamilyData:
		return "data"
	case FamilyOperator:
		return "operator"
	case FamilyContext:
		return "context"
	case FamilyRoot:
		return "root"
	case FamilyRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Sentinel errors for node construction, field access and compilation.
var (
	ErrMissingField   = errors.New("missing field")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownKind    = errors.New("unknown node kind")
	ErrFieldType      = errors.New("field type mismatch")
	ErrTooManyArgs    = errors.New("too many positional arguments")
	ErrNotCompilable  = errors.New("node is not a code segment")
	ErrUnrenderable   = errors.New("node cannot be rendered")
	ErrNotFunction    = errors.New("value is not a function")
	ErrBadSignature   = errors.New("invalid signature")
	ErrInvalidRawTree = errors.New("invalid raw tree")
)

// FieldError reports a field-level failure on a specific kind.
type FieldError struct {
	Kind  Kind
	Field string
	Err   error
}

// Error implements error.
func (fe *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", fe.Kind, fe.Field, fe.Err)
}

// Unwrap returns the underlying sentinel.
func (fe *FieldError) Unwrap() error {
	return fe.Err
}

func missingField(kind Kind, field string) error {
	return &FieldError{Kind: kind, Field: field, Err: ErrMissingField}
}

// Position is the out-of-band source location of a node. It never takes part
// in structural equality.
type Position struct {
	Lineno    int
	ColOffset int
}

// Node is implemented by every tree node: typed kinds, operators, expression
// contexts and pass-through raw nodes.
type Node interface {
	Kind() Kind
	Pos() *Position
	SetPos(pos *Position)
}

// Expr is implemented by expression kinds.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement kinds.
type Stmt interface {
	Node
	stmtNode()
}

// DataNode is implemented by auxiliary kinds that only appear as fields of
// expressions and statements.
type DataNode interface {
	Node
	dataNode()
}

// Root is implemented by whole-program kinds (Module, Expression, Interactive).
type Root interface {
	Node
	rootNode()
}

// attrs carries position metadata for structural kinds.
type attrs struct {
	pos *Position
}

// Pos returns the node position, or nil when unset.
func (a *attrs) Pos() *Position { return a.pos }

// SetPos replaces the node position.
func (a *attrs) SetPos(pos *Position) { a.pos = pos }

type exprBase struct{ attrs }

func (*exprBase) exprNode() {}

type stmtBase struct{ attrs }

func (*stmtBase) stmtNode() {}

type dataBase struct{ attrs }

func (*dataBase) dataNode() {}

type rootBase struct{}

func (*rootBase) rootNode() {}

// Pos always returns nil; roots carry no position.
func (*rootBase) Pos() *Position { return nil }

// SetPos is a no-op for roots.
func (*rootBase) SetPos(*Position) {}

// Ptr returns a pointer to v. It is used for optional scalar fields.
func Ptr[T any](v T) *T {
	return &v
}
