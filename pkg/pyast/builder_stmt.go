package pyast

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func (b *builder) module(root sitter.Node) (*node.RawNode, error) {
	body, err := b.statements(root)
	if err != nil {
		return nil, err
	}

	return node.NewRaw("Module", "body", body), nil
}

// statements converts every statement under a module or block.
func (b *builder) statements(n sitter.Node) ([]any, error) {
	body := make([]any, 0, n.NamedChildCount())

	for _, child := range namedChildren(n) {
		stmt, err := b.statement(child)
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	return body, nil
}

// suite converts the block under the named field of n.
func (b *builder) suite(n sitter.Node, name string) ([]any, error) {
	block, ok := field(n, name)
	if !ok {
		return b.blockOf(n)
	}

	return b.statements(block)
}

// blockOf converts the first block child of clauses whose body has no field
// name.
func (b *builder) blockOf(n sitter.Node) ([]any, error) {
	for _, child := range namedChildren(n) {
		if child.Type() == "block" {
			return b.statements(child)
		}
	}

	return []any{}, nil
}

//nolint:cyclop,funlen // one case per statement kind
func (b *builder) statement(n sitter.Node) (any, error) {
	switch n.Type() {
	case "expression_statement":
		return b.expressionStatement(n)
	case "return_statement":
		return b.returnStatement(n)
	case "delete_statement":
		return b.deleteStatement(n)
	case "raise_statement":
		return b.raiseStatement(n)
	case "assert_statement":
		return b.assertStatement(n)
	case "pass_statement":
		return b.raw(n, "Pass"), nil
	case "break_statement":
		return b.raw(n, "Break"), nil
	case "continue_statement":
		return b.raw(n, "Continue"), nil
	case "global_statement":
		return b.raw(n, "Global", "names", b.identifiers(n)), nil
	case "nonlocal_statement":
		return b.raw(n, "Nonlocal", "names", b.identifiers(n)), nil
	case "import_statement":
		return b.importStatement(n)
	case "import_from_statement", "future_import_statement":
		return b.importFrom(n)
	case "print_statement":
		return b.printStatement(n)
	case "if_statement":
		return b.ifStatement(n)
	case "for_statement":
		return b.forStatement(n)
	case "while_statement":
		return b.whileStatement(n)
	case "try_statement":
		return b.tryStatement(n)
	case "with_statement":
		return b.withStatement(n)
	case "function_definition":
		return b.functionDef(n, nil)
	case "class_definition":
		return b.classDef(n, nil)
	case "decorated_definition":
		return b.decorated(n)
	case "match_statement":
		return nil, b.unsupported(n, "match statement")
	case "type_alias_statement":
		return nil, b.unsupported(n, "type alias")
	case "exec_statement":
		return nil, b.unsupported(n, "exec statement")
	default:
		return nil, b.unsupported(n, n.Type())
	}
}

func (b *builder) expressionStatement(n sitter.Node) (any, error) {
	parts := namedChildren(n)
	if len(parts) == 1 {
		switch parts[0].Type() {
		case "assignment":
			return b.assignment(parts[0])
		case "augmented_assignment":
			return b.augmentedAssignment(parts[0])
		}
	}

	value, err := b.sequence(n, parts)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Expr", "value", value), nil
}

// sequence converts one expression, or packs several into a tuple the way
// a bare comma-separated expression list reads.
func (b *builder) sequence(n sitter.Node, parts []sitter.Node) (any, error) {
	if len(parts) == 1 && !hasToken(n, ",") {
		return b.expr(parts[0])
	}

	elts, err := b.exprs(parts)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Tuple", "elts", elts, "ctx", ctxLoad), nil
}

func (b *builder) assignment(n sitter.Node) (any, error) {
	var targets []any

	current := n

	for {
		left, _ := field(current, "left")

		target, err := b.expr(left)
		if err != nil {
			return nil, err
		}

		withContext(target, ctxStore)

		if annotation, annotated := field(current, "type"); annotated {
			if len(targets) > 0 {
				return nil, b.invalid(current, "annotated target in a chained assignment")
			}

			return b.annotatedAssignment(current, left, target, annotation)
		}

		targets = append(targets, target)

		right, ok := field(current, "right")
		if !ok {
			return nil, b.invalid(current, "assignment without a value")
		}

		switch right.Type() {
		case "assignment":
			current = right

			continue
		case "augmented_assignment":
			return nil, b.invalid(right, "augmented assignment inside an assignment")
		}

		value, err := b.expr(right)
		if err != nil {
			return nil, err
		}

		return b.raw(n, "Assign", "targets", targets, "value", value), nil
	}
}

func (b *builder) annotatedAssignment(n, left sitter.Node, target any, annotation sitter.Node) (any, error) {
	ann, err := b.expr(annotation)
	if err != nil {
		return nil, err
	}

	simple := 0
	if left.Type() == "identifier" || left.Type() == "keyword_identifier" {
		simple = 1
	}

	stmt := b.raw(n, "AnnAssign", "target", target, "annotation", ann, "simple", simple)

	if right, ok := field(n, "right"); ok {
		value, err := b.expr(right)
		if err != nil {
			return nil, err
		}

		stmt.Fields["value"] = value
	}

	return stmt, nil
}

func (b *builder) augmentedAssignment(n sitter.Node) (any, error) {
	left, _ := field(n, "left")
	right, _ := field(n, "right")
	operator, _ := field(n, "operator")

	op, ok := binaryOperators[strings.TrimSuffix(b.text(operator), "=")]
	if !ok {
		return nil, b.invalid(operator, "unknown operator %q", b.text(operator))
	}

	target, err := b.expr(left)
	if err != nil {
		return nil, err
	}

	withContext(target, ctxStore)

	value, err := b.expr(right)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "AugAssign", "target", target, "op", op, "value", value), nil
}

func (b *builder) returnStatement(n sitter.Node) (any, error) {
	stmt := b.raw(n, "Return")

	if parts := namedChildren(n); len(parts) > 0 {
		value, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		stmt.Fields["value"] = value
	}

	return stmt, nil
}

func (b *builder) deleteStatement(n sitter.Node) (any, error) {
	parts := namedChildren(n)
	if len(parts) == 1 && parts[0].Type() == "expression_list" {
		parts = namedChildren(parts[0])
	}

	targets, err := b.exprs(parts)
	if err != nil {
		return nil, err
	}

	for _, target := range targets {
		withContext(target, ctxDel)
	}

	return b.raw(n, "Delete", "targets", targets), nil
}

func (b *builder) raiseStatement(n sitter.Node) (any, error) {
	stmt := b.raw(n, "Raise")

	if parts := namedBefore(n, "from"); len(parts) > 0 {
		exc, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		stmt.Fields["exc"] = exc
	}

	if causeNode, ok := field(n, "cause"); ok {
		cause, err := b.expr(causeNode)
		if err != nil {
			return nil, err
		}

		stmt.Fields["cause"] = cause
	}

	return stmt, nil
}

func (b *builder) assertStatement(n sitter.Node) (any, error) {
	parts := namedChildren(n)
	if len(parts) == 0 {
		return nil, b.invalid(n, "assert without a test")
	}

	test, err := b.expr(parts[0])
	if err != nil {
		return nil, err
	}

	stmt := b.raw(n, "Assert", "test", test)

	if len(parts) > 1 {
		msg, err := b.expr(parts[1])
		if err != nil {
			return nil, err
		}

		stmt.Fields["msg"] = msg
	}

	return stmt, nil
}

func (b *builder) identifiers(n sitter.Node) []any {
	var names []any

	for _, child := range namedChildren(n) {
		names = append(names, b.text(child))
	}

	return names
}

func (b *builder) importStatement(n sitter.Node) (any, error) {
	names, err := b.aliases(namedChildren(n))
	if err != nil {
		return nil, err
	}

	return b.raw(n, "Import", "names", names), nil
}

func (b *builder) importFrom(n sitter.Node) (any, error) {
	stmt := b.raw(n, "ImportFrom", "level", 0)

	if n.Type() == "future_import_statement" {
		stmt.Fields["module"] = "__future__"
	} else if moduleNode, ok := field(n, "module_name"); ok {
		b.importSource(moduleNode, stmt)
	}

	var names []any

	for _, child := range namedAfter(n, "import") {
		if child.Type() == "wildcard_import" {
			names = append(names, b.raw(child, "alias", "name", "*"))

			continue
		}

		aliases, err := b.aliases([]sitter.Node{child})
		if err != nil {
			return nil, err
		}

		names = append(names, aliases...)
	}

	stmt.Fields["names"] = names

	return stmt, nil
}

// importSource fills module and level from a dotted or relative module name.
func (b *builder) importSource(n sitter.Node, stmt *node.RawNode) {
	if n.Type() != "relative_import" {
		stmt.Fields["module"] = b.text(n)

		return
	}

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "import_prefix":
			stmt.Fields["level"] = strings.Count(b.text(child), ".")
		case "dotted_name":
			stmt.Fields["module"] = b.text(child)
		}
	}
}

func (b *builder) aliases(parts []sitter.Node) ([]any, error) {
	names := make([]any, 0, len(parts))

	for _, part := range parts {
		switch part.Type() {
		case "dotted_name":
			names = append(names, b.raw(part, "alias", "name", b.text(part)))
		case "aliased_import":
			nameNode, _ := field(part, "name")
			aliasNode, _ := field(part, "alias")
			names = append(names, b.raw(part, "alias", "name", b.text(nameNode), "asname", b.text(aliasNode)))
		default:
			return nil, b.unsupported(part, "import of "+part.Type())
		}
	}

	return names, nil
}

// printStatement reads a Python 2 print statement as a call to print.
func (b *builder) printStatement(n sitter.Node) (any, error) {
	parts := namedChildren(n)
	for _, part := range parts {
		if part.Type() == "chevron" {
			return nil, b.unsupported(part, "print chevron")
		}
	}

	args, err := b.exprs(parts)
	if err != nil {
		return nil, err
	}

	call := b.raw(n, "Call", "func", b.raw(n, "Name", "id", "print", "ctx", ctxLoad), "args", args, "keywords", []any{})

	return b.raw(n, "Expr", "value", call), nil
}

func (b *builder) ifStatement(n sitter.Node) (any, error) {
	conditionNode, _ := field(n, "condition")

	test, err := b.expr(conditionNode)
	if err != nil {
		return nil, err
	}

	body, err := b.suite(n, "consequence")
	if err != nil {
		return nil, err
	}

	root := b.raw(n, "If", "test", test, "body", body, "orelse", []any{})
	tail := root

	for _, clause := range namedChildren(n) {
		switch clause.Type() {
		case "elif_clause":
			clauseCondition, _ := field(clause, "condition")

			clauseTest, err := b.expr(clauseCondition)
			if err != nil {
				return nil, err
			}

			clauseBody, err := b.suite(clause, "consequence")
			if err != nil {
				return nil, err
			}

			next := b.raw(clause, "If", "test", clauseTest, "body", clauseBody, "orelse", []any{})
			tail.Fields["orelse"] = []any{next}
			tail = next
		case "else_clause":
			orelse, err := b.suite(clause, "body")
			if err != nil {
				return nil, err
			}

			tail.Fields["orelse"] = orelse
		}
	}

	return root, nil
}

// elseOf converts the else clause under the alternative field, if any.
func (b *builder) elseOf(n sitter.Node) ([]any, error) {
	clause, ok := field(n, "alternative")
	if !ok {
		return []any{}, nil
	}

	return b.suite(clause, "body")
}

func (b *builder) forStatement(n sitter.Node) (any, error) {
	leftNode, _ := field(n, "left")
	rightNode, _ := field(n, "right")

	target, err := b.expr(leftNode)
	if err != nil {
		return nil, err
	}

	withContext(target, ctxStore)

	iter, err := b.expr(rightNode)
	if err != nil {
		return nil, err
	}

	body, err := b.suite(n, "body")
	if err != nil {
		return nil, err
	}

	orelse, err := b.elseOf(n)
	if err != nil {
		return nil, err
	}

	tag := "For"
	if hasToken(n, "async") {
		tag = "AsyncFor"
	}

	return b.raw(n, tag, "target", target, "iter", iter, "body", body, "orelse", orelse), nil
}

func (b *builder) whileStatement(n sitter.Node) (any, error) {
	conditionNode, _ := field(n, "condition")

	test, err := b.expr(conditionNode)
	if err != nil {
		return nil, err
	}

	body, err := b.suite(n, "body")
	if err != nil {
		return nil, err
	}

	orelse, err := b.elseOf(n)
	if err != nil {
		return nil, err
	}

	return b.raw(n, "While", "test", test, "body", body, "orelse", orelse), nil
}

func (b *builder) tryStatement(n sitter.Node) (any, error) {
	body, err := b.suite(n, "body")
	if err != nil {
		return nil, err
	}

	stmt := b.raw(n, "Try", "body", body, "handlers", []any{}, "orelse", []any{}, "finalbody", []any{})

	var handlers []any

	for _, clause := range namedChildren(n) {
		switch clause.Type() {
		case "except_clause":
			handler, err := b.exceptHandler(clause)
			if err != nil {
				return nil, err
			}

			handlers = append(handlers, handler)
		case "except_group_clause":
			return nil, b.unsupported(clause, "except*")
		case "else_clause":
			orelse, err := b.suite(clause, "body")
			if err != nil {
				return nil, err
			}

			stmt.Fields["orelse"] = orelse
		case "finally_clause":
			finalbody, err := b.blockOf(clause)
			if err != nil {
				return nil, err
			}

			stmt.Fields["finalbody"] = finalbody
		}
	}

	if len(handlers) > 0 {
		stmt.Fields["handlers"] = handlers
	}

	return stmt, nil
}

func (b *builder) exceptHandler(n sitter.Node) (any, error) {
	body, err := b.blockOf(n)
	if err != nil {
		return nil, err
	}

	handler := b.raw(n, "ExceptHandler", "body", body)

	var parts []sitter.Node

	for _, child := range namedChildren(n) {
		if child.Type() != "block" {
			parts = append(parts, child)
		}
	}

	if len(parts) == 0 {
		return handler, nil
	}

	// Older grammars read "E as e" as one as_pattern.
	if pattern := parts[0]; pattern.Type() == "as_pattern" {
		parts = namedChildren(pattern)

		if alias, ok := field(pattern, "alias"); ok && len(parts) > 0 {
			parts = []sitter.Node{parts[0], alias}
		}
	}

	if len(parts) == 0 {
		return nil, b.invalid(n, "empty except clause")
	}

	exc, err := b.expr(parts[0])
	if err != nil {
		return nil, err
	}

	handler.Fields["type"] = exc

	if len(parts) > 1 {
		handler.Fields["name"] = b.targetName(parts[1])
	}

	return handler, nil
}

// targetName reads the identifier behind an as-target.
func (b *builder) targetName(n sitter.Node) string {
	if inner := namedChildren(n); len(inner) == 1 {
		return b.text(inner[0])
	}

	return b.text(n)
}

func (b *builder) withStatement(n sitter.Node) (any, error) {
	var items []any

	for _, clause := range namedChildren(n) {
		if clause.Type() != "with_clause" {
			continue
		}

		for _, item := range namedChildren(clause) {
			converted, err := b.withItem(item)
			if err != nil {
				return nil, err
			}

			items = append(items, converted)
		}
	}

	body, err := b.suite(n, "body")
	if err != nil {
		return nil, err
	}

	tag := "With"
	if hasToken(n, "async") {
		tag = "AsyncWith"
	}

	return b.raw(n, tag, "items", items, "body", body), nil
}

func (b *builder) withItem(n sitter.Node) (any, error) {
	valueNode, ok := field(n, "value")
	if !ok {
		parts := namedChildren(n)
		if len(parts) == 0 {
			return nil, b.invalid(n, "empty with item")
		}

		valueNode = parts[0]
	}

	if valueNode.Type() != "as_pattern" {
		context, err := b.expr(valueNode)
		if err != nil {
			return nil, err
		}

		return b.raw(n, "withitem", "context_expr", context), nil
	}

	parts := namedChildren(valueNode)

	context, err := b.expr(parts[0])
	if err != nil {
		return nil, err
	}

	item := b.raw(n, "withitem", "context_expr", context)

	if alias, ok := field(valueNode, "alias"); ok {
		vars, err := b.asTarget(alias)
		if err != nil {
			return nil, err
		}

		withContext(vars, ctxStore)
		item.Fields["optional_vars"] = vars
	}

	return item, nil
}

// asTarget converts an as_pattern_target, which either wraps the target
// expression or is the renamed expression itself.
func (b *builder) asTarget(n sitter.Node) (any, error) {
	if n.Type() != "as_pattern_target" {
		return b.expr(n)
	}

	if inner := namedChildren(n); len(inner) == 1 {
		return b.expr(inner[0])
	}

	return b.raw(n, "Name", "id", b.text(n), "ctx", ctxLoad), nil
}

func (b *builder) decorated(n sitter.Node) (any, error) {
	var decorators []any

	for _, child := range namedChildren(n) {
		if child.Type() != "decorator" {
			continue
		}

		parts := namedChildren(child)
		if len(parts) == 0 {
			return nil, b.invalid(child, "empty decorator")
		}

		decorator, err := b.expr(parts[0])
		if err != nil {
			return nil, err
		}

		decorators = append(decorators, decorator)
	}

	definition, ok := field(n, "definition")
	if !ok {
		return nil, b.invalid(n, "decorator without a definition")
	}

	if definition.Type() == "class_definition" {
		return b.classDef(definition, decorators)
	}

	return b.functionDef(definition, decorators)
}

func (b *builder) functionDef(n sitter.Node, decorators []any) (any, error) {
	if _, generic := field(n, "type_parameters"); generic {
		return nil, b.unsupported(n, "type parameters")
	}

	nameNode, _ := field(n, "name")

	args := b.raw(n, "arguments")
	if params, ok := field(n, "parameters"); ok {
		var err error

		if args, err = b.parameters(params); err != nil {
			return nil, err
		}
	}

	body, err := b.suite(n, "body")
	if err != nil {
		return nil, err
	}

	if decorators == nil {
		decorators = []any{}
	}

	tag := "FunctionDef"
	if hasToken(n, "async") {
		tag = "AsyncFunctionDef"
	}

	stmt := b.raw(n, tag, "name", b.text(nameNode), "args", args, "body", body, "decorator_list", decorators)

	if returnsNode, ok := field(n, "return_type"); ok {
		returns, err := b.expr(returnsNode)
		if err != nil {
			return nil, err
		}

		stmt.Fields["returns"] = returns
	}

	return stmt, nil
}

func (b *builder) classDef(n sitter.Node, decorators []any) (any, error) {
	if _, generic := field(n, "type_parameters"); generic {
		return nil, b.unsupported(n, "type parameters")
	}

	nameNode, _ := field(n, "name")

	bases, keywords := []any{}, []any{}

	if superclasses, ok := field(n, "superclasses"); ok {
		var err error

		if bases, keywords, err = b.arguments(superclasses); err != nil {
			return nil, err
		}
	}

	body, err := b.suite(n, "body")
	if err != nil {
		return nil, err
	}

	if decorators == nil {
		decorators = []any{}
	}

	return b.raw(n, "ClassDef", "name", b.text(nameNode), "bases", bases, "keywords", keywords,
		"body", body, "decorator_list", decorators), nil
}
