package node

import (
	"fmt"
	"math/big"
	"strings"
)

// Binding strengths on one scale: operator catalog ranks times ten, with the
// remaining expression forms slotted in between.
const (
	precYield   = 0
	precReturn  = 1
	precLambda  = 5
	precTest    = 5
	precIfExp   = 7
	precNoCond  = 7
	precOr      = 10
	precAnd     = 20
	precNot     = 25
	precCompare = 27
	precBitOr   = 30
	precFactor  = 85
	precPower   = 90
	precAwait   = 95
	precPrimary = 100
	precAtom    = 110
)

func binaryPrecedence(op BinaryOperator) int {
	return op.Precedence() * 10 //nolint:mnd // catalog rank scale
}

func boolPrecedence(op BoolOperator) int {
	return op.Precedence() * 10 //nolint:mnd // catalog rank scale
}

// expr renders e, parenthesized when it binds looser than minPrec.
func (p *printer) expr(e Expr, minPrec int) string {
	text, prec := p.exprText(e)
	if prec < minPrec {
		return "(" + text + ")"
	}

	return text
}

//nolint:cyclop,funlen,gocyclo // one case per expression kind
func (p *printer) exprText(e Expr) (string, int) {
	switch typed := e.(type) {
	case *RawNode:
		p.fail(fmt.Errorf("%w: unregistered kind %q", ErrUnrenderable, typed.Tag))

		return "", precAtom
	case *BoolOp:
		return p.boolOp(typed)
	case *NamedExpr:
		target := p.required(typed.Target, KindNamedExpr, "target", precAtom)
		value := p.required(typed.Value, KindNamedExpr, "value", precTest)

		return "(" + target + " := " + value + ")", precAtom
	case *BinOp:
		return p.binOp(typed)
	case *UnaryOp:
		return p.unaryOp(typed)
	case *Lambda:
		return p.lambda(typed), precLambda
	case *IfExp:
		body := p.required(typed.Body, KindIfExp, "body", precOr)
		test := p.required(typed.Test, KindIfExp, "test", precOr)
		orelse := p.required(typed.Orelse, KindIfExp, "orelse", precTest)

		return body + " if " + test + " else " + orelse, precIfExp
	case *Dict:
		return p.dict(typed), precAtom
	case *Set:
		if len(typed.Elts) == 0 {
			return "set()", precAtom
		}

		return "{" + p.exprList(typed.Elts, KindSet, "elts", precTest) + "}", precAtom
	case *ListComp:
		elt := p.required(typed.Elt, KindListComp, "elt", precNoCond)

		return "[" + elt + p.generators(typed.Generators, KindListComp) + "]", precAtom
	case *SetComp:
		elt := p.required(typed.Elt, KindSetComp, "elt", precNoCond)

		return "{" + elt + p.generators(typed.Generators, KindSetComp) + "}", precAtom
	case *DictComp:
		key := p.required(typed.Key, KindDictComp, "key", precNoCond)
		value := p.required(typed.Value, KindDictComp, "value", precNoCond)

		return "{" + key + ": " + value + p.generators(typed.Generators, KindDictComp) + "}", precAtom
	case *GeneratorExp:
		elt := p.required(typed.Elt, KindGeneratorExp, "elt", precNoCond)

		return "(" + elt + p.generators(typed.Generators, KindGeneratorExp) + ")", precAtom
	case *Await:
		return "await " + p.required(typed.Value, KindAwait, "value", precPrimary), precAwait
	case *Yield:
		if value, ok := p.optional(typed.Value, precTest); ok {
			return "yield " + value, precYield
		}

		return "yield", precYield
	case *YieldFrom:
		return "yield from " + p.required(typed.Value, KindYieldFrom, "value", precTest), precYield
	case *Compare:
		return p.compare(typed), precCompare
	case *Call:
		return p.call(typed), precPrimary
	case *FormattedValue:
		return "f" + p.fstring([]Expr{typed}), precAtom
	case *JoinedStr:
		return "f" + p.fstring(typed.Values), precAtom
	case *Constant:
		return p.constant(typed)
	case *Attribute:
		return p.attribute(typed), precPrimary
	case *Subscript:
		value := p.required(typed.Value, KindSubscript, "value", precPrimary)

		return value + "[" + p.subscriptSlice(typed.Slice) + "]", precPrimary
	case *Starred:
		return "*" + p.required(typed.Value, KindStarred, "value", precBitOr), precAtom
	case *Name:
		return p.name(typed.ID, KindName, "id"), precAtom
	case *List:
		return "[" + p.exprList(typed.Elts, KindList, "elts", precTest) + "]", precAtom
	case *Tuple:
		return p.tuple(typed), precAtom
	case *Slice:
		return p.slice(typed), precAtom
	default:
		p.fail(fmt.Errorf("%w: %s", ErrUnrenderable, e.Kind()))

		return "", precAtom
	}
}

func (p *printer) boolOp(bop *BoolOp) (string, int) {
	if len(bop.Values) == 0 {
		p.fail(missingField(KindBoolOp, "values"))

		return "", precAtom
	}

	if bop.Op == 0 {
		p.fail(missingField(KindBoolOp, "op"))

		return "", precAtom
	}

	prec := boolPrecedence(bop.Op)
	parts := make([]string, len(bop.Values))

	for idx, value := range bop.Values {
		minPrec := prec + 1

		if inner, ok := value.(*BoolOp); ok && bop.Op == Or && inner.Op == And {
			minPrec = precAtom
		}

		parts[idx] = p.required(value, KindBoolOp, "values", minPrec)
	}

	if len(parts) == 1 {
		return parts[0], prec
	}

	return strings.Join(parts, " "+bop.Op.Symbol()+" "), prec
}

// alwaysWrapped lists kinds that a binary operand parenthesizes regardless
// of precedence.
func alwaysWrapped(e Expr) bool {
	switch e.(type) {
	case *IfExp, *Lambda, *GeneratorExp:
		return true
	default:
		return false
	}
}

func (p *printer) binOp(bop *BinOp) (string, int) {
	if bop.Op == 0 {
		p.fail(missingField(KindBinOp, "op"))

		return "", precAtom
	}

	prec := binaryPrecedence(bop.Op)
	leftMin, rightMin := prec, prec+1

	if bop.Op == Pow {
		leftMin, rightMin = prec+1, precFactor
	}

	if alwaysWrapped(bop.Left) {
		leftMin = precAtom
	}

	if alwaysWrapped(bop.Right) {
		rightMin = precAtom
	}

	left := p.required(bop.Left, KindBinOp, "left", leftMin)
	right := p.required(bop.Right, KindBinOp, "right", rightMin)

	return left + " " + bop.Op.Symbol() + " " + right, prec
}

func (p *printer) unaryOp(uop *UnaryOp) (string, int) {
	switch uop.Op {
	case 0:
		p.fail(missingField(KindUnaryOp, "op"))

		return "", precAtom
	case Not:
		return "not " + p.required(uop.Operand, KindUnaryOp, "operand", precNot), precNot
	default:
		return uop.Op.Symbol() + p.required(uop.Operand, KindUnaryOp, "operand", precFactor), precFactor
	}
}

func (p *printer) lambda(lambda *Lambda) string {
	body := p.required(lambda.Body, KindLambda, "body", precTest)

	params := ""
	if lambda.Args != nil {
		params = p.arguments(lambda.Args, false)
	}

	if params == "" {
		return "lambda: " + body
	}

	return "lambda " + params + ": " + body
}

func (p *printer) dict(dict *Dict) string {
	if len(dict.Keys) != len(dict.Values) {
		p.fail(fmt.Errorf("%w: Dict has %d keys and %d values", ErrUnrenderable, len(dict.Keys), len(dict.Values)))

		return ""
	}

	parts := make([]string, len(dict.Keys))

	for idx, key := range dict.Keys {
		if isNilNode(key) {
			parts[idx] = "**" + p.required(dict.Values[idx], KindDict, "values", precBitOr)

			continue
		}

		parts[idx] = p.expr(key, precNoCond) + ": " + p.required(dict.Values[idx], KindDict, "values", precTest)
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

func (p *printer) generators(gens []*Comprehension, kind Kind) string {
	if len(gens) == 0 {
		p.fail(missingField(kind, "generators"))

		return ""
	}

	var sb strings.Builder

	for _, gen := range gens {
		if gen == nil {
			p.fail(missingField(kind, "generators"))

			continue
		}

		sb.WriteString(p.comprehension(gen))
	}

	return sb.String()
}

// comprehension renders one clause with a leading space.
func (p *printer) comprehension(gen *Comprehension) string {
	var sb strings.Builder

	if gen.IsAsync != 0 {
		sb.WriteString(" async")
	}

	sb.WriteString(" for ")
	sb.WriteString(p.required(gen.Target, KindComprehension, "target", precBitOr))
	sb.WriteString(" in ")
	sb.WriteString(p.required(gen.Iter, KindComprehension, "iter", precOr))

	for _, cond := range gen.Ifs {
		sb.WriteString(" if ")
		sb.WriteString(p.required(cond, KindComprehension, "ifs", precOr))
	}

	return sb.String()
}

func (p *printer) compare(cmp *Compare) string {
	if len(cmp.Ops) == 0 || len(cmp.Ops) != len(cmp.Comparators) {
		p.fail(fmt.Errorf("%w: Compare has %d operators and %d comparators",
			ErrUnrenderable, len(cmp.Ops), len(cmp.Comparators)))

		return ""
	}

	var sb strings.Builder

	sb.WriteString(p.required(cmp.Left, KindCompare, "left", precCompare+1))

	for idx, op := range cmp.Ops {
		sb.WriteByte(' ')
		sb.WriteString(op.Symbol())
		sb.WriteByte(' ')
		sb.WriteString(p.required(cmp.Comparators[idx], KindCompare, "comparators", precCompare+1))
	}

	return sb.String()
}

func (p *printer) call(call *Call) string {
	fn := p.required(call.Func, KindCall, "func", precPrimary)
	parts := make([]string, 0, len(call.Args)+len(call.Keywords))

	for _, arg := range call.Args {
		parts = append(parts, p.required(arg, KindCall, "args", precTest))
	}

	for _, kw := range call.Keywords {
		if kw == nil {
			p.fail(missingField(KindCall, "keywords"))

			continue
		}

		parts = append(parts, p.keyword(kw))
	}

	return fn + "(" + strings.Join(parts, ", ") + ")"
}

func (p *printer) keyword(kw *Keyword) string {
	if kw.Arg == "" {
		return "**" + p.required(kw.Value, KindKeyword, "value", precBitOr)
	}

	return kw.Arg + "=" + p.required(kw.Value, KindKeyword, "value", precTest)
}

func (p *printer) constant(constant *Constant) (string, int) {
	if constant.Value == nil {
		p.fail(missingField(KindConstant, "value"))

		return "", precAtom
	}

	text, err := literalRepr(constant.Value, p.quote)
	if err != nil {
		p.fail(err)

		return "", precAtom
	}

	if isNegativeLiteral(constant.Value) {
		return text, precFactor
	}

	return text, precAtom
}

func (p *printer) attribute(attr *Attribute) string {
	value := p.required(attr.Value, KindAttribute, "value", precPrimary)

	// `1.real` lexes as a float literal followed by a name.
	if constant, ok := attr.Value.(*Constant); ok && !strings.HasPrefix(value, "(") {
		switch normalizeLiteral(constant.Value).(type) {
		case int64, *big.Int:
			value = "(" + value + ")"
		}
	}

	return value + "." + p.name(attr.Attr, KindAttribute, "attr")
}

// subscriptSlice renders a subscript index; a tuple holding a slice drops
// its parentheses since `x[(a:b, c)]` is not valid syntax.
func (p *printer) subscriptSlice(index Expr) string {
	tuple, ok := index.(*Tuple)
	if !ok || !containsSlice(tuple.Elts) {
		return p.required(index, KindSubscript, "slice", precTest)
	}

	text := p.exprList(tuple.Elts, KindTuple, "elts", precTest)
	if len(tuple.Elts) == 1 {
		text += ","
	}

	return text
}

func containsSlice(elts []Expr) bool {
	for _, elt := range elts {
		if _, ok := elt.(*Slice); ok {
			return true
		}
	}

	return false
}

func (p *printer) tuple(tuple *Tuple) string {
	switch len(tuple.Elts) {
	case 0:
		return "()"
	case 1:
		return "(" + p.required(tuple.Elts[0], KindTuple, "elts", precTest) + ", )"
	default:
		return "(" + p.exprList(tuple.Elts, KindTuple, "elts", precTest) + ")"
	}
}

func (p *printer) slice(slice *Slice) string {
	lower, _ := p.optional(slice.Lower, precNoCond)
	upper, _ := p.optional(slice.Upper, precNoCond)

	text := lower + ":" + upper
	if step, ok := p.optional(slice.Step, precNoCond); ok {
		text += ":" + step
	}

	return text
}

// fstring renders the quoted body of an f-string. Embedded expressions use
// the alternate quote so they never close the literal early.
func (p *printer) fstring(values []Expr) string {
	var sb strings.Builder

	sb.WriteByte(p.quote)
	p.fstringBody(&sb, values)
	sb.WriteByte(p.quote)

	return sb.String()
}

func (p *printer) fstringBody(sb *strings.Builder, values []Expr) {
	for _, value := range values {
		switch typed := value.(type) {
		case *Constant:
			text, ok := typed.Value.(string)
			if !ok {
				p.fail(fmt.Errorf("%w: f-string segment of type %T", ErrUnrenderable, typed.Value))

				continue
			}

			writeEscaped(sb, text, p.quote, escapeMode{doubleBraces: true})
		case *FormattedValue:
			p.formattedValue(sb, typed)
		default:
			p.fail(fmt.Errorf("%w: f-string segment %s", ErrUnrenderable, value.Kind()))
		}
	}
}

func (p *printer) formattedValue(sb *strings.Builder, fv *FormattedValue) {
	inner := &printer{quote: alternateQuote(p.quote), indent: p.indent}

	text := inner.required(fv.Value, KindFormattedValue, "value", precNoCond)
	if inner.err != nil {
		p.fail(inner.err)
	}

	if strings.HasPrefix(text, "{") {
		text = " " + text
	}

	sb.WriteByte('{')
	sb.WriteString(text)

	if fv.Conversion > 0 {
		sb.WriteByte('!')
		sb.WriteRune(rune(fv.Conversion))
	}

	if fv.FormatSpec != nil {
		sb.WriteByte(':')
		p.fstringBody(sb, fv.FormatSpec.Values)
	}

	sb.WriteByte('}')
}
