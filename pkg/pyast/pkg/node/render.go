package node

import (
	"fmt"
	"strings"
)

// Default rendering options.
const (
	DefaultQuote  byte = '"'
	DefaultIndent      = 4
)

// RenderOptions controls surface formatting of rendered source.
type RenderOptions struct {
	// Quote is the preferred string delimiter, '"' or '\''.
	Quote byte
	// Indent is the number of spaces per block level.
	Indent int
}

// DefaultRenderOptions returns double quotes and four-space indentation.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Quote: DefaultQuote, Indent: DefaultIndent}
}

// Render serializes a finalized tree to source text with default options.
func Render(n Node) (string, error) {
	return RenderWith(n, DefaultRenderOptions())
}

// RenderWith serializes a finalized tree to source text. A malformed tree
// yields ErrMissingField or ErrUnrenderable; rendering never panics.
func RenderWith(n Node, opts RenderOptions) (string, error) {
	if opts.Quote != '"' && opts.Quote != '\'' {
		opts.Quote = DefaultQuote
	}

	if opts.Indent <= 0 {
		opts.Indent = DefaultIndent
	}

	p := &printer{quote: opts.Quote, indent: strings.Repeat(" ", opts.Indent)}

	out := p.render(n)
	if p.err != nil {
		return "", p.err
	}

	return out, nil
}

// printer accumulates statement lines and keeps the first failure.
type printer struct {
	quote  byte
	indent string
	lines  []string
	err    error
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *printer) emit(level int, text string) {
	p.lines = append(p.lines, strings.Repeat(p.indent, level)+text)
}

func (p *printer) flush() string {
	out := strings.Join(p.lines, "\n")
	p.lines = nil

	return out
}

//nolint:cyclop // one case per family
func (p *printer) render(n Node) string {
	if isNilNode(n) {
		p.fail(fmt.Errorf("%w: nil node", ErrUnrenderable))

		return ""
	}

	switch typed := n.(type) {
	case *RawNode:
		p.fail(fmt.Errorf("%w: unregistered kind %q", ErrUnrenderable, typed.Tag))

		return ""
	case *Module:
		p.body(typed.Body, 0, true, false)

		return p.flush()
	case *Interactive:
		p.body(typed.Body, 0, false, false)

		return p.flush()
	case *Expression:
		return p.required(typed.Body, KindExpression, "body", precYield)
	case Stmt:
		p.stmt(typed, 0)

		return p.flush()
	case Expr:
		return p.expr(typed, precYield)
	case *ExceptHandler:
		p.handler(typed, 0)

		return p.flush()
	case *Arguments:
		return p.arguments(typed, true)
	case *Arg:
		return p.arg(typed, true)
	case *Keyword:
		return p.keyword(typed)
	case *Alias:
		return p.alias(typed)
	case *WithItem:
		return p.withItem(typed)
	case *Comprehension:
		return strings.TrimPrefix(p.comprehension(typed), " ")
	case BoolOperator:
		return typed.Symbol()
	case BinaryOperator:
		return typed.Symbol()
	case UnaryOperator:
		return typed.Symbol()
	case CmpOperator:
		return typed.Symbol()
	default:
		p.fail(fmt.Errorf("%w: %s", ErrUnrenderable, n.Kind()))

		return ""
	}
}

// body renders a statement block; an empty top-level body renders nothing,
// an empty nested one renders `pass`.
func (p *printer) body(stmts []Stmt, level int, docstring, nested bool) {
	if len(stmts) == 0 {
		if nested {
			p.emit(level, "pass")
		}

		return
	}

	for idx, stmt := range stmts {
		if idx == 0 && docstring {
			if text, ok := docstringOf(stmt); ok {
				p.emit(level, quoteDocstring(text, p.quote))

				continue
			}
		}

		p.stmt(stmt, level)
	}
}

func (p *printer) block(stmts []Stmt, level int) {
	p.body(stmts, level, false, true)
}

// docstringOf reports whether stmt is a bare string literal statement.
func docstringOf(stmt Stmt) (string, bool) {
	exprStmt, ok := stmt.(*ExprStmt)
	if !ok {
		return "", false
	}

	constant, ok := exprStmt.Value.(*Constant)
	if !ok {
		return "", false
	}

	text, ok := constant.Value.(string)

	return text, ok
}

func (p *printer) required(e Expr, kind Kind, field string, minPrec int) string {
	if isNilNode(e) {
		p.fail(missingField(kind, field))

		return ""
	}

	return p.expr(e, minPrec)
}

func (p *printer) optional(e Expr, minPrec int) (string, bool) {
	if isNilNode(e) {
		return "", false
	}

	return p.expr(e, minPrec), true
}

func (p *printer) exprList(list []Expr, kind Kind, field string, minPrec int) string {
	parts := make([]string, len(list))
	for idx, elem := range list {
		parts[idx] = p.required(elem, kind, field, minPrec)
	}

	return strings.Join(parts, ", ")
}

func (p *printer) name(value string, kind Kind, field string) string {
	if value == "" {
		p.fail(missingField(kind, field))
	}

	return value
}
