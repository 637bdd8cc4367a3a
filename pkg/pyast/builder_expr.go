package pyast

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Operator names keyed by surface symbol.
var (
	binaryOperators = operatorsBySymbol(node.FamilyBinOp)
	unaryOperators  = map[string]string{"+": "UAdd", "-": "USub", "~": "Invert"}
	cmpOperators    = withAliases(operatorsBySymbol(node.FamilyCmpOp), map[string]string{"<>": "NotEq"})
)

func operatorsBySymbol(family node.OperatorFamily) map[string]string {
	out := make(map[string]string)

	for _, info := range node.Operators() {
		if info.Family == family {
			out[info.Symbol] = string(info.Name)
		}
	}

	return out
}

func withAliases(table, aliases map[string]string) map[string]string {
	for symbol, name := range aliases {
		table[symbol] = name
	}

	return table
}

func (b *builder) exprs(parts []sitter.Node) ([]any, error) {
	out := make([]any, 0, len(parts))

	for _, part := range parts {
		value, err := b.expr(part)
		if err != nil {
			return nil, err
		}

		out = append(out, value)
	}

	return out, nil
}

func (b *builder) name(n sitter.Node) *node.RawNode {
	return b.raw(n, "Name", "id", b.text(n), "ctx", ctxLoad)
}

func (b *builder) constant(n sitter.Node, value any) *node.RawNode {
	return b.raw(n, "Constant", "value", value)
}

//nolint:cyclop,funlen,gocyclo // one case per expression node type
func (b *builder) expr(n sitter.Node) (any, error) {
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return b.name(n), nil
	case "integer", "float":
		value, err := parseNumber(b.text(n))
		if err != nil {
			return nil, b.invalid(n, "%v", err)
		}

		return b.constant(n, value), nil
	case "true":
		return b.constant(n, true), nil
	case "false":
		return b.constant(n, false), nil
	case "none":
		return b.constant(n, nil), nil
	case "ellipsis":
		return b.constant(n, node.Ellipsis), nil
	case "string", "concatenated_string":
		return b.stringLiteral(n)
	case "parenthesized_expression":
		parts := namedChildren(n)
		if len(parts) != 1 {
			return nil, b.invalid(n, "empty parentheses")
		}

		return b.expr(parts[0])
	case "tuple_pattern":
		// A parenthesized single target without a comma is that target.
		if parts := namedChildren(n); len(parts) == 1 && !hasToken(n, ",") {
			return b.expr(parts[0])
		}

		return b.collection(n, "Tuple")
	case "expression_list", "pattern_list", "tuple":
		return b.collection(n, "Tuple")
	case "list", "list_pattern":
		return b.collection(n, "List")
	case "set":
		return b.collection(n, "Set")
	case "dictionary":
		return b.dictionary(n)
	case "list_splat", "list_splat_pattern", "parenthesized_list_splat":
		return b.starred(n)
	case "boolean_operator":
		return b.booleanOperator(n)
	case "not_operator":
		argument, _ := field(n, "argument")

		operand, err := b.expr(argument)
		if err != nil {
			return nil, err
		}

		return b.raw(n, "UnaryOp", "op", "Not", "operand", operand), nil
	case "binary_operator":
		return b.binaryOperator(n)
	case "unary_operator":
		return b.unaryOperator(n)
	case "comparison_operator":
		return b.comparison(n)
	case "lambda":
		return b.lambda(n)
	case "conditional_expression":
		return b.conditional(n)
	case "named_expression":
		return b.namedExpression(n)
	case "attribute":
		return b.attribute(n)
	case "subscript":
		return b.subscript(n)
	case "slice":
		return b.slice(n)
	case "call":
		return b.call(n)
	case "list_comprehension":
		return b.comprehension(n, "ListComp")
	case "set_comprehension":
		return b.comprehension(n, "SetComp")
	case "generator_expression":
		return b.comprehension(n, "GeneratorExp")
	case "dictionary_comprehension":
		return b.comprehension(n, "DictComp")
	case "await":
		parts := namedChildren(n)
		if len(parts) != 1 {
			return nil, b.invalid(n, "await without an operand")
		}

		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		return b.raw(n, "Await", "value", value), nil
	case "yield":
		return b.yield(n)
	case "type", "as_pattern_target":
		return b.typeExpr(n)
	case "generic_type", "union_type", "member_type", "splat_type":
		return b.typeExpr(n)
	case "as_pattern":
		return nil, b.unsupported(n, "as pattern outside with or except")
	default:
		return nil, b.unsupported(n, n.Type())
	}
}

// collection converts tuples, lists and sets, starred elements included.
func (b *builder) collection(n sitter.Node, tag string) (any, error) {
	elts, err := b.exprs(namedChildren(n))
	if err != nil {
		return nil, err
	}

	if tag == "Set" {
		return b.raw(n, tag, "elts", elts), nil
	}

	return b.raw(n, tag, "elts", elts, "ctx", ctxLoad), nil
}

func (b *builder) starred(n sitter.Node) (any, error) {
	parts := namedChildren(n)
	if len(parts) != 1 {
		return nil, b.invalid(n, "starred expression without an operand")
	}

	if n.Type() == "parenthesized_list_splat" {
		return b.expr(parts[0])
	}

	value, err := b.expr(parts[0])
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Starred", "value", value, "ctx", ctxLoad), nil
}

func (b *builder) dictionary(n sitter.Node) (any, error) {
	keys, values := []any{}, []any{}

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "pair":
			keyNode, _ := field(child, "key")
			valueNode, _ := field(child, "value")

			key, err := b.expr(keyNode)
			if err != nil {
				return nil, err
			}

			value, err := b.expr(valueNode)
			if err != nil {
				return nil, err
			}

			keys = append(keys, key)
			values = append(values, value)
		case "dictionary_splat":
			parts := namedChildren(child)
			if len(parts) != 1 {
				return nil, b.invalid(child, "dictionary unpacking without an operand")
			}

			value, err := b.expr(parts[0])
			if err != nil {
				return nil, err
			}

			keys = append(keys, nil)
			values = append(values, value)
		default:
			return nil, b.unsupported(child, "dictionary entry "+child.Type())
		}
	}

	return b.raw(n, "Dict", "keys", keys, "values", values), nil
}

// booleanOperator flattens an unparenthesized chain of one operator into a
// single BoolOp, the way CPython groups "a and b and c".
func (b *builder) booleanOperator(n sitter.Node) (any, error) {
	operator, _ := field(n, "operator")
	opText := b.text(operator)

	op := "And"
	if opText == "or" {
		op = "Or"
	}

	var operands []sitter.Node

	current := n

	for {
		right, _ := field(current, "right")
		operands = append(operands, right)

		left, _ := field(current, "left")
		leftOp, isChain := field(left, "operator")

		if left.Type() != "boolean_operator" || !isChain || b.text(leftOp) != opText {
			operands = append(operands, left)

			break
		}

		current = left
	}

	values := make([]any, 0, len(operands))

	for idx := len(operands) - 1; idx >= 0; idx-- {
		value, err := b.expr(operands[idx])
		if err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	return b.raw(n, "BoolOp", "op", op, "values", values), nil
}

func (b *builder) binaryOperator(n sitter.Node) (any, error) {
	leftNode, _ := field(n, "left")
	rightNode, _ := field(n, "right")
	operator, _ := field(n, "operator")

	op, ok := binaryOperators[b.text(operator)]
	if !ok {
		return nil, b.invalid(operator, "unknown operator %q", b.text(operator))
	}

	left, err := b.expr(leftNode)
	if err != nil {
		return nil, err
	}

	right, err := b.expr(rightNode)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "BinOp", "left", left, "op", op, "right", right), nil
}

func (b *builder) unaryOperator(n sitter.Node) (any, error) {
	operator, _ := field(n, "operator")
	argument, _ := field(n, "argument")

	op, ok := unaryOperators[b.text(operator)]
	if !ok {
		return nil, b.invalid(operator, "unknown operator %q", b.text(operator))
	}

	operand, err := b.expr(argument)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "UnaryOp", "op", op, "operand", operand), nil
}

// comparison collects operands and operators in source order. Two-word
// operators arrive either as one aliased token or as two keyword tokens.
func (b *builder) comparison(n sitter.Node) (any, error) {
	var (
		operands []sitter.Node
		ops      []any
		pending  string
	)

	for _, child := range children(n) {
		if child.IsNamed() {
			if pending != "" {
				op, ok := cmpOperators[pending]
				if !ok {
					return nil, b.invalid(child, "unknown comparison %q", pending)
				}

				ops = append(ops, op)
				pending = ""
			}

			operands = append(operands, child)

			continue
		}

		token := strings.Join(strings.Fields(b.text(child)), " ")
		if pending != "" {
			pending += " " + token
		} else {
			pending = token
		}
	}

	if len(operands) < 2 || len(ops) != len(operands)-1 {
		return nil, b.invalid(n, "malformed comparison")
	}

	left, err := b.expr(operands[0])
	if err != nil {
		return nil, err
	}

	comparators, err := b.exprs(operands[1:])
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Compare", "left", left, "ops", ops, "comparators", comparators), nil
}

func (b *builder) lambda(n sitter.Node) (any, error) {
	args := b.raw(n, "arguments")

	if params, ok := field(n, "parameters"); ok {
		var err error

		if args, err = b.parameters(params); err != nil {
			return nil, err
		}
	}

	bodyNode, _ := field(n, "body")

	body, err := b.expr(bodyNode)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Lambda", "args", args, "body", body), nil
}

func (b *builder) conditional(n sitter.Node) (any, error) {
	parts := namedChildren(n)

	const arity = 3
	if len(parts) != arity {
		return nil, b.invalid(n, "malformed conditional expression")
	}

	values, err := b.exprs(parts)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "IfExp", "body", values[0], "test", values[1], "orelse", values[2]), nil
}

func (b *builder) namedExpression(n sitter.Node) (any, error) {
	nameNode, _ := field(n, "name")
	valueNode, _ := field(n, "value")

	value, err := b.expr(valueNode)
	if err != nil {
		return nil, err
	}

	target := b.name(nameNode)
	target.Fields["ctx"] = ctxStore

	return b.raw(n, "NamedExpr", "target", target, "value", value), nil
}

func (b *builder) attribute(n sitter.Node) (any, error) {
	objectNode, _ := field(n, "object")
	attrNode, _ := field(n, "attribute")

	value, err := b.expr(objectNode)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Attribute", "value", value, "attr", b.text(attrNode), "ctx", ctxLoad), nil
}

func (b *builder) subscript(n sitter.Node) (any, error) {
	valueNode, _ := field(n, "value")

	value, err := b.expr(valueNode)
	if err != nil {
		return nil, err
	}

	indexes := namedAfter(n, "[")

	elts, err := b.exprs(indexes)
	if err != nil {
		return nil, err
	}

	var index any

	if len(elts) == 1 && !hasToken(n, ",") {
		index = elts[0]
	} else {
		index = b.raw(indexes[0], "Tuple", "elts", elts, "ctx", ctxLoad)
	}

	return b.raw(n, "Subscript", "value", value, "slice", index, "ctx", ctxLoad), nil
}

// slice assigns bounds by how many colons precede each expression.
func (b *builder) slice(n sitter.Node) (any, error) {
	slot := b.raw(n, "Slice")
	names := []string{"lower", "upper", "step"}
	colons := 0

	for _, child := range children(n) {
		if !child.IsNamed() {
			if child.Type() == ":" {
				colons++
			}

			continue
		}

		if colons >= len(names) {
			return nil, b.invalid(child, "too many slice bounds")
		}

		value, err := b.expr(child)
		if err != nil {
			return nil, err
		}

		slot.Fields[names[colons]] = value
	}

	return slot, nil
}

func (b *builder) call(n sitter.Node) (any, error) {
	functionNode, _ := field(n, "function")

	function, err := b.expr(functionNode)
	if err != nil {
		return nil, err
	}

	argumentsNode, _ := field(n, "arguments")

	if argumentsNode.Type() == "generator_expression" {
		generator, err := b.expr(argumentsNode)
		if err != nil {
			return nil, err
		}

		return b.raw(n, "Call", "func", function, "args", []any{generator}, "keywords", []any{}), nil
	}

	args, keywords, err := b.arguments(argumentsNode)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Call", "func", function, "args", args, "keywords", keywords), nil
}

// arguments splits an argument list into positional arguments and keywords.
func (b *builder) arguments(n sitter.Node) ([]any, []any, error) {
	args, keywords := []any{}, []any{}

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "keyword_argument":
			nameNode, _ := field(child, "name")
			valueNode, _ := field(child, "value")

			value, err := b.expr(valueNode)
			if err != nil {
				return nil, nil, err
			}

			keywords = append(keywords, b.raw(child, "keyword", "arg", b.text(nameNode), "value", value))
		case "dictionary_splat":
			parts := namedChildren(child)
			if len(parts) != 1 {
				return nil, nil, b.invalid(child, "keyword unpacking without an operand")
			}

			value, err := b.expr(parts[0])
			if err != nil {
				return nil, nil, err
			}

			keywords = append(keywords, b.raw(child, "keyword", "value", value))
		default:
			value, err := b.expr(child)
			if err != nil {
				return nil, nil, err
			}

			args = append(args, value)
		}
	}

	return args, keywords, nil
}

// comprehension reads the body and then the for/if clauses in order; each if
// clause filters the for clause before it.
func (b *builder) comprehension(n sitter.Node, tag string) (any, error) {
	bodyNode, _ := field(n, "body")

	out := b.raw(n, tag)

	if tag == "DictComp" {
		keyNode, _ := field(bodyNode, "key")
		valueNode, _ := field(bodyNode, "value")

		key, err := b.expr(keyNode)
		if err != nil {
			return nil, err
		}

		value, err := b.expr(valueNode)
		if err != nil {
			return nil, err
		}

		out.Fields["key"] = key
		out.Fields["value"] = value
	} else {
		elt, err := b.expr(bodyNode)
		if err != nil {
			return nil, err
		}

		out.Fields["elt"] = elt
	}

	var (
		generators []any
		last       *node.RawNode
	)

	for _, clause := range namedChildren(n) {
		switch clause.Type() {
		case "for_in_clause":
			generator, err := b.forInClause(clause)
			if err != nil {
				return nil, err
			}

			generators = append(generators, generator)
			last = generator
		case "if_clause":
			if last == nil {
				return nil, b.invalid(clause, "if clause before any for clause")
			}

			parts := namedChildren(clause)
			if len(parts) != 1 {
				return nil, b.invalid(clause, "malformed if clause")
			}

			test, err := b.expr(parts[0])
			if err != nil {
				return nil, err
			}

			last.Fields["ifs"] = append(rawList(last.Fields["ifs"]), test)
		}
	}

	out.Fields["generators"] = generators

	return out, nil
}

func (b *builder) forInClause(n sitter.Node) (*node.RawNode, error) {
	leftNode, _ := field(n, "left")

	target, err := b.expr(leftNode)
	if err != nil {
		return nil, err
	}

	withContext(target, ctxStore)

	iter, err := b.sequence(n, namedAfter(n, "in"))
	if err != nil {
		return nil, err
	}

	isAsync := 0
	if hasToken(n, "async") {
		isAsync = 1
	}

	return b.raw(n, "comprehension", "target", target, "iter", iter, "ifs", []any{}, "is_async", isAsync), nil
}

func (b *builder) yield(n sitter.Node) (any, error) {
	parts := namedChildren(n)

	if hasToken(n, "from") {
		if len(parts) != 1 {
			return nil, b.invalid(n, "yield from without an operand")
		}

		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		return b.raw(n, "YieldFrom", "value", value), nil
	}

	out := b.raw(n, "Yield")

	if len(parts) > 0 {
		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		out.Fields["value"] = value
	}

	return out, nil
}

// typeExpr converts annotation nodes. Grammar versions differ on whether a
// type wraps a plain expression or one of the dedicated type forms.
func (b *builder) typeExpr(n sitter.Node) (any, error) {
	parts := namedChildren(n)

	switch n.Type() {
	case "generic_type":
		if len(parts) != 2 {
			return nil, b.invalid(n, "malformed generic type")
		}

		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		params, err := b.exprs(namedChildren(parts[1]))
		if err != nil {
			return nil, err
		}

		var index any = b.raw(parts[1], "Tuple", "elts", params, "ctx", ctxLoad)
		if len(params) == 1 {
			index = params[0]
		}

		return b.raw(n, "Subscript", "value", value, "slice", index, "ctx", ctxLoad), nil
	case "union_type":
		if len(parts) != 2 {
			return nil, b.invalid(n, "malformed union type")
		}

		sides, err := b.exprs(parts)
		if err != nil {
			return nil, err
		}

		return b.raw(n, "BinOp", "left", sides[0], "op", "BitOr", "right", sides[1]), nil
	case "member_type":
		if len(parts) != 2 {
			return nil, b.invalid(n, "malformed member type")
		}

		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		return b.raw(n, "Attribute", "value", value, "attr", b.text(parts[1]), "ctx", ctxLoad), nil
	case "splat_type":
		if len(parts) != 1 {
			return nil, b.invalid(n, "malformed splat type")
		}

		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		return b.raw(n, "Starred", "value", value, "ctx", ctxLoad), nil
	}

	if len(parts) == 1 {
		return b.expr(parts[0])
	}

	if len(parts) == 0 {
		return b.name(n), nil
	}

	return nil, b.unsupported(n, n.Type())
}
