package pyast

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// signature accumulates an arguments raw node while walking parameters in
// order. Parameters before "/" become positional-only; those after "*" or
// "*args" become keyword-only.
type signature struct {
	posOnly    []any
	args       []any
	kwOnly     []any
	kwDefaults []any
	defaults   []any
	vararg     *node.RawNode
	kwarg      *node.RawNode
	starSeen   bool
}

func (s *signature) add(arg *node.RawNode, def any) {
	if s.starSeen {
		s.kwOnly = append(s.kwOnly, arg)
		s.kwDefaults = append(s.kwDefaults, def)

		return
	}

	s.args = append(s.args, arg)

	if def != nil {
		s.defaults = append(s.defaults, def)
	}
}

func (b *builder) parameters(n sitter.Node) (*node.RawNode, error) {
	var sig signature

	for _, param := range namedChildren(n) {
		if err := b.parameter(param, &sig); err != nil {
			return nil, err
		}
	}

	out := b.raw(n, "arguments",
		"posonlyargs", orEmpty(sig.posOnly),
		"args", orEmpty(sig.args),
		"kwonlyargs", orEmpty(sig.kwOnly),
		"kw_defaults", orEmpty(sig.kwDefaults),
		"defaults", orEmpty(sig.defaults),
	)

	if sig.vararg != nil {
		out.Fields["vararg"] = sig.vararg
	}

	if sig.kwarg != nil {
		out.Fields["kwarg"] = sig.kwarg
	}

	return out, nil
}

func orEmpty(list []any) []any {
	if list == nil {
		return []any{}
	}

	return list
}

//nolint:cyclop // one case per parameter form
func (b *builder) parameter(n sitter.Node, sig *signature) error {
	switch n.Type() {
	case "identifier":
		sig.add(b.raw(n, "arg", "arg", b.text(n)), nil)
	case "positional_separator":
		sig.posOnly = append(sig.posOnly, sig.args...)
		sig.args = nil
	case "keyword_separator":
		sig.starSeen = true
	case "list_splat_pattern":
		sig.vararg = b.raw(n, "arg", "arg", b.splatName(n))
		sig.starSeen = true
	case "dictionary_splat_pattern":
		sig.kwarg = b.raw(n, "arg", "arg", b.splatName(n))
	case "default_parameter", "typed_default_parameter":
		nameNode, _ := field(n, "name")
		if nameNode.Type() != "identifier" {
			return b.unsupported(nameNode, "tuple parameter")
		}

		arg := b.raw(n, "arg", "arg", b.text(nameNode))

		if err := b.annotate(n, arg); err != nil {
			return err
		}

		valueNode, _ := field(n, "value")

		def, err := b.expr(valueNode)
		if err != nil {
			return err
		}

		sig.add(arg, def)
	case "typed_parameter":
		return b.typedParameter(n, sig)
	default:
		return b.unsupported(n, "parameter "+n.Type())
	}

	return nil
}

func (b *builder) typedParameter(n sitter.Node, sig *signature) error {
	parts := namedChildren(n)
	if len(parts) == 0 {
		return b.invalid(n, "empty parameter")
	}

	target := parts[0]

	switch target.Type() {
	case "list_splat_pattern":
		sig.vararg = b.raw(n, "arg", "arg", b.splatName(target))
		sig.starSeen = true

		return b.annotate(n, sig.vararg)
	case "dictionary_splat_pattern":
		sig.kwarg = b.raw(n, "arg", "arg", b.splatName(target))

		return b.annotate(n, sig.kwarg)
	case "identifier":
		arg := b.raw(n, "arg", "arg", b.text(target))
		if err := b.annotate(n, arg); err != nil {
			return err
		}

		sig.add(arg, nil)

		return nil
	default:
		return b.unsupported(target, "parameter "+target.Type())
	}
}

// annotate sets the annotation from the type field, if any.
func (b *builder) annotate(n sitter.Node, arg *node.RawNode) error {
	typeNode, ok := field(n, "type")
	if !ok {
		return nil
	}

	annotation, err := b.expr(typeNode)
	if err != nil {
		return err
	}

	arg.Fields["annotation"] = annotation

	return nil
}

// splatName reads the identifier after * or **.
func (b *builder) splatName(n sitter.Node) string {
	if parts := namedChildren(n); len(parts) > 0 {
		return b.text(parts[0])
	}

	return b.text(n)
}
