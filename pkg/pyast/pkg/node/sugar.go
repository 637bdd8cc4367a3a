package node

import "fmt"

// Ex wraps an expression with operator sugar. Every method builds a new node
// and leaves its receiver untouched; comparison methods start a fresh Compare
// rather than extending an existing chain.
type Ex struct {
	Expr
}

// E wraps an expression, or boxes a literal or named function, for sugar.
// It panics when value has no expression form.
func E(value any) Ex {
	return Ex{Expr: toExpr(value)}
}

// toExpr converts a sugar operand. Operands are supplied by code, so an
// operand without an expression form is a programming error.
func toExpr(value any) Expr {
	switch typed := value.(type) {
	case Ex:
		return typed.Expr
	case Expr:
		return typed
	}

	if boxed, ok := Box(value); ok {
		if expr, isExpr := boxed.(Expr); isExpr {
			return expr
		}
	}

	panic(fmt.Errorf("%w: %T is not an expression", ErrFieldType, value))
}

func (x Ex) binary(op BinaryOperator, other any) Ex {
	return Ex{&BinOp{Left: x.Expr, Op: op, Right: toExpr(other)}}
}

func (x Ex) boolean(op BoolOperator, other any) Ex {
	return Ex{&BoolOp{Op: op, Values: []Expr{x.Expr, toExpr(other)}}}
}

func (x Ex) compare(op CmpOperator, other any) Ex {
	return Ex{&Compare{Left: x.Expr, Ops: []CmpOperator{op}, Comparators: []Expr{toExpr(other)}}}
}

func (x Ex) unary(op UnaryOperator) Ex {
	return Ex{&UnaryOp{Op: op, Operand: x.Expr}}
}

// Index builds `x[index]`.
func (x Ex) Index(index any) Ex {
	return Ex{&Subscript{Value: x.Expr, Slice: toExpr(index)}}
}

// Attr builds `x.name`.
func (x Ex) Attr(name string) Ex {
	return Ex{&Attribute{Value: x.Expr, Attr: name}}
}

// Call builds `x(args...)`; KW arguments become keywords.
func (x Ex) Call(args ...any) Ex {
	call := &Call{Func: x.Expr, Args: []Expr{}, Keywords: []*Keyword{}}

	for _, arg := range args {
		if kw, ok := arg.(KeywordArg); ok {
			call.Keywords = append(call.Keywords, &Keyword{Arg: kw.Name, Value: toExpr(kw.Value)})

			continue
		}

		call.Args = append(call.Args, toExpr(arg))
	}

	return Ex{call}
}

// Node returns the built expression.
func (x Ex) Node() Expr {
	return x.Expr
}

// unwrapSugar strips an Ex wrapper so trees only hold concrete kinds.
func unwrapSugar(n Node) Node {
	if ex, ok := n.(Ex); ok {
		return ex.Expr
	}

	return n
}
