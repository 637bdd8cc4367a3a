package node

import (
	"fmt"
	"strings"
)

//nolint:cyclop,funlen,gocyclo // one case per statement kind
func (p *printer) stmt(s Stmt, level int) {
	if isNilNode(s) {
		p.fail(fmt.Errorf("%w: nil statement", ErrUnrenderable))

		return
	}

	switch typed := s.(type) {
	case *RawNode:
		p.fail(fmt.Errorf("%w: unregistered kind %q", ErrUnrenderable, typed.Tag))
	case *FunctionDef:
		p.functionDef("def ", typed.Name, typed.Args, typed.Body, typed.DecoratorList, typed.Returns, level)
	case *AsyncFunctionDef:
		p.functionDef("async def ", typed.Name, typed.Args, typed.Body, typed.DecoratorList, typed.Returns, level)
	case *ClassDef:
		p.classDef(typed, level)
	case *Return:
		if value, ok := p.optional(typed.Value, precReturn); ok {
			p.emit(level, "return "+value)
		} else {
			p.emit(level, "return")
		}
	case *Delete:
		p.emit(level, "del "+p.exprList(typed.Targets, KindDelete, "targets", precTest))
	case *Assign:
		p.assign(typed, level)
	case *AugAssign:
		if typed.Op == 0 {
			p.fail(missingField(KindAugAssign, "op"))

			return
		}

		target := p.required(typed.Target, KindAugAssign, "target", precTest)
		value := p.required(typed.Value, KindAugAssign, "value", precYield)
		p.emit(level, target+" "+typed.Op.Symbol()+"= "+value)
	case *AnnAssign:
		p.annAssign(typed, level)
	case *For:
		p.forLoop("for ", typed.Target, typed.Iter, typed.Body, typed.Orelse, KindFor, level)
	case *AsyncFor:
		p.forLoop("async for ", typed.Target, typed.Iter, typed.Body, typed.Orelse, KindAsyncFor, level)
	case *While:
		p.emit(level, "while "+p.required(typed.Test, KindWhile, "test", precTest)+":")
		p.block(typed.Body, level+1)
		p.orelse(typed.Orelse, level)
	case *If:
		p.ifChain(typed, level)
	case *With:
		p.with("with ", typed.Items, typed.Body, KindWith, level)
	case *AsyncWith:
		p.with("async with ", typed.Items, typed.Body, KindAsyncWith, level)
	case *Raise:
		p.raise(typed, level)
	case *Try:
		p.try(typed, level)
	case *Assert:
		text := "assert " + p.required(typed.Test, KindAssert, "test", precTest)
		if msg, ok := p.optional(typed.Msg, precTest); ok {
			text += ", " + msg
		}

		p.emit(level, text)
	case *Import:
		p.emit(level, "import "+p.aliases(typed.Names, KindImport))
	case *ImportFrom:
		module := strings.Repeat(".", typed.Level) + typed.Module
		if module == "" {
			p.fail(missingField(KindImportFrom, "module"))
		}

		p.emit(level, "from "+module+" import "+p.aliases(typed.Names, KindImportFrom))
	case *Global:
		p.emit(level, "global "+p.identifiers(typed.Names, KindGlobal))
	case *Nonlocal:
		p.emit(level, "nonlocal "+p.identifiers(typed.Names, KindNonlocal))
	case *ExprStmt:
		p.emit(level, p.required(typed.Value, KindExpr, "value", precYield))
	case *Pass:
		p.emit(level, "pass")
	case *Break:
		p.emit(level, "break")
	case *Continue:
		p.emit(level, "continue")
	default:
		p.fail(fmt.Errorf("%w: %s", ErrUnrenderable, s.Kind()))
	}
}

func (p *printer) decorators(list []Expr, kind Kind, level int) {
	for _, decorator := range list {
		p.emit(level, "@"+p.required(decorator, kind, "decorator_list", precTest))
	}
}

func (p *printer) functionDef(
	keyword, name string, args *Arguments, body []Stmt, decorators []Expr, returns Expr, level int,
) {
	kind := KindFunctionDef
	if keyword != "def " {
		kind = KindAsyncFunctionDef
	}

	p.decorators(decorators, kind, level)

	params := ""
	if args != nil {
		params = p.arguments(args, true)
	}

	header := keyword + p.name(name, kind, "name") + "(" + params + ")"
	if annotation, ok := p.optional(returns, precTest); ok {
		header += " -> " + annotation
	}

	p.emit(level, header+":")
	p.body(body, level+1, true, true)
}

func (p *printer) classDef(class *ClassDef, level int) {
	p.decorators(class.DecoratorList, KindClassDef, level)

	parts := make([]string, 0, len(class.Bases)+len(class.Keywords))

	for _, base := range class.Bases {
		parts = append(parts, p.required(base, KindClassDef, "bases", precTest))
	}

	for _, kw := range class.Keywords {
		if kw == nil {
			p.fail(missingField(KindClassDef, "keywords"))

			continue
		}

		parts = append(parts, p.keyword(kw))
	}

	header := "class " + p.name(class.Name, KindClassDef, "name")
	if len(parts) > 0 {
		header += "(" + strings.Join(parts, ", ") + ")"
	}

	p.emit(level, header+":")
	p.body(class.Body, level+1, true, true)
}

func (p *printer) assign(assign *Assign, level int) {
	if len(assign.Targets) == 0 {
		p.fail(missingField(KindAssign, "targets"))

		return
	}

	var sb strings.Builder

	for _, target := range assign.Targets {
		sb.WriteString(p.required(target, KindAssign, "targets", precTest))
		sb.WriteString(" = ")
	}

	sb.WriteString(p.required(assign.Value, KindAssign, "value", precYield))
	p.emit(level, sb.String())
}

func (p *printer) annAssign(ann *AnnAssign, level int) {
	target := p.required(ann.Target, KindAnnAssign, "target", precTest)

	if _, isName := ann.Target.(*Name); isName && ann.Simple != nil && *ann.Simple == 0 {
		target = "(" + target + ")"
	}

	text := target + ": " + p.required(ann.Annotation, KindAnnAssign, "annotation", precTest)
	if value, ok := p.optional(ann.Value, precYield); ok {
		text += " = " + value
	}

	p.emit(level, text)
}

func (p *printer) forLoop(keyword string, target, iter Expr, body, orelse []Stmt, kind Kind, level int) {
	header := keyword + p.required(target, kind, "target", precTest) +
		" in " + p.required(iter, kind, "iter", precTest) + ":"

	p.emit(level, header)
	p.block(body, level+1)
	p.orelse(orelse, level)
}

func (p *printer) orelse(orelse []Stmt, level int) {
	if len(orelse) == 0 {
		return
	}

	p.emit(level, "else:")
	p.block(orelse, level+1)
}

// ifChain walks else branches that hold a single If and emits them as elif.
func (p *printer) ifChain(stmt *If, level int) {
	keyword := "if "

	for {
		p.emit(level, keyword+p.required(stmt.Test, KindIf, "test", precTest)+":")
		p.block(stmt.Body, level+1)

		if len(stmt.Orelse) == 1 {
			if next, ok := stmt.Orelse[0].(*If); ok {
				stmt, keyword = next, "elif "

				continue
			}
		}

		p.orelse(stmt.Orelse, level)

		return
	}
}

func (p *printer) with(keyword string, items []*WithItem, body []Stmt, kind Kind, level int) {
	if len(items) == 0 {
		p.fail(missingField(kind, "items"))

		return
	}

	parts := make([]string, len(items))

	for idx, item := range items {
		if item == nil {
			p.fail(missingField(kind, "items"))

			continue
		}

		parts[idx] = p.withItem(item)
	}

	p.emit(level, keyword+strings.Join(parts, ", ")+":")
	p.block(body, level+1)
}

func (p *printer) withItem(item *WithItem) string {
	text := p.required(item.ContextExpr, KindWithItem, "context_expr", precTest)
	if vars, ok := p.optional(item.OptionalVars, precTest); ok {
		text += " as " + vars
	}

	return text
}

func (p *printer) raise(raise *Raise, level int) {
	exc, hasExc := p.optional(raise.Exc, precTest)
	if !hasExc {
		p.emit(level, "raise")

		return
	}

	text := "raise " + exc
	if cause, ok := p.optional(raise.Cause, precTest); ok {
		text += " from " + cause
	}

	p.emit(level, text)
}

func (p *printer) try(try *Try, level int) {
	if len(try.Handlers) == 0 && len(try.Finalbody) == 0 {
		p.fail(fmt.Errorf("%w: Try without handlers or finally", ErrUnrenderable))

		return
	}

	p.emit(level, "try:")
	p.block(try.Body, level+1)

	for _, handler := range try.Handlers {
		if handler == nil {
			p.fail(missingField(KindTry, "handlers"))

			continue
		}

		p.handler(handler, level)
	}

	p.orelse(try.Orelse, level)

	if len(try.Finalbody) > 0 {
		p.emit(level, "finally:")
		p.block(try.Finalbody, level+1)
	}
}

func (p *printer) handler(handler *ExceptHandler, level int) {
	header := "except"

	if kind, ok := p.optional(handler.Type, precTest); ok {
		header += " " + kind

		if handler.Name != "" {
			header += " as " + handler.Name
		}
	}

	p.emit(level, header+":")
	p.block(handler.Body, level+1)
}

func (p *printer) aliases(names []*Alias, kind Kind) string {
	if len(names) == 0 {
		p.fail(missingField(kind, "names"))

		return ""
	}

	parts := make([]string, len(names))

	for idx, alias := range names {
		if alias == nil {
			p.fail(missingField(kind, "names"))

			continue
		}

		parts[idx] = p.alias(alias)
	}

	return strings.Join(parts, ", ")
}

func (p *printer) alias(alias *Alias) string {
	text := p.name(alias.Name, KindAlias, "name")
	if alias.Asname != "" {
		text += " as " + alias.Asname
	}

	return text
}

func (p *printer) identifiers(names []string, kind Kind) string {
	if len(names) == 0 {
		p.fail(missingField(kind, "names"))
	}

	return strings.Join(names, ", ")
}

// arguments renders a parameter list. Lambdas pass annotated=false since
// their parameters cannot carry annotations.
func (p *printer) arguments(args *Arguments, annotated bool) string {
	positional := make([]*Arg, 0, len(args.PosOnlyArgs)+len(args.Args))
	positional = append(positional, args.PosOnlyArgs...)
	positional = append(positional, args.Args...)

	if len(args.Defaults) > len(positional) {
		p.fail(fmt.Errorf("%w: arguments has %d defaults for %d parameters",
			ErrUnrenderable, len(args.Defaults), len(positional)))

		return ""
	}

	firstDefault := len(positional) - len(args.Defaults)
	parts := make([]string, 0, len(positional)+len(args.KwOnlyArgs)+3) //nolint:mnd // `/`, `*` and `**`

	for idx, param := range positional {
		var def Expr
		if idx >= firstDefault {
			def = args.Defaults[idx-firstDefault]
		}

		parts = append(parts, p.param(param, def, annotated))

		if idx == len(args.PosOnlyArgs)-1 {
			parts = append(parts, "/")
		}
	}

	switch {
	case args.Vararg != nil:
		parts = append(parts, "*"+p.arg(args.Vararg, annotated))
	case len(args.KwOnlyArgs) > 0:
		parts = append(parts, "*")
	}

	for idx, param := range args.KwOnlyArgs {
		var def Expr
		if idx < len(args.KwDefaults) {
			def = args.KwDefaults[idx]
		}

		parts = append(parts, p.param(param, def, annotated))
	}

	if args.Kwarg != nil {
		parts = append(parts, "**"+p.arg(args.Kwarg, annotated))
	}

	return strings.Join(parts, ", ")
}

func (p *printer) param(param *Arg, def Expr, annotated bool) string {
	if param == nil {
		p.fail(missingField(KindArguments, "args"))

		return ""
	}

	text := p.arg(param, annotated)
	if isNilNode(def) {
		return text
	}

	if annotated && !isNilNode(param.Annotation) {
		return text + " = " + p.expr(def, precTest)
	}

	return text + "=" + p.expr(def, precTest)
}

func (p *printer) arg(param *Arg, annotated bool) string {
	text := p.name(param.Arg, KindArg, "arg")
	if !annotated {
		return text
	}

	if annotation, ok := p.optional(param.Annotation, precTest); ok {
		text += ": " + annotation
	}

	return text
}
