package pyast

import (
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
	"github.com/Sumatoshi-tech/pyforge/pkg/safeconv"
)

// Expression contexts as raw operator names.
const (
	ctxLoad  = "Load"
	ctxStore = "Store"
	ctxDel   = "Del"
)

// builder converts tree-sitter Python nodes into raw nodes that carry the
// CPython ast field names, so node.Wrap can type them.
type builder struct {
	src []byte
}

func newBuilder(src []byte) *builder {
	return &builder{src: src}
}

func (b *builder) text(n sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

// raw creates a raw node positioned at n.
func (b *builder) raw(n sitter.Node, tag string, pairs ...any) *node.RawNode {
	point := n.StartPoint()

	return node.NewRaw(tag, pairs...).At(safeconv.OneBased(point.Row), safeconv.Must[int](point.Column))
}

func (b *builder) unsupported(n sitter.Node, what string) error {
	point := n.StartPoint()

	return &SyntaxError{
		Line:   safeconv.OneBased(point.Row),
		Column: safeconv.OneBased(point.Column),
		Err:    fmt.Errorf("%w: %s", ErrUnsupportedSyntax, what),
	}
}

func (b *builder) invalid(n sitter.Node, format string, args ...any) error {
	point := n.StartPoint()

	return &SyntaxError{
		Line:   safeconv.OneBased(point.Row),
		Column: safeconv.OneBased(point.Column),
		Err:    fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...)),
	}
}

// isExtra reports nodes the grammar lets appear anywhere.
func isExtra(n sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	default:
		return false
	}
}

// namedChildren lists the named children of n, skipping comments.
func namedChildren(n sitter.Node) []sitter.Node {
	out := make([]sitter.Node, 0, n.NamedChildCount())

	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if isExtra(child) {
			continue
		}

		out = append(out, child)
	}

	return out
}

// children lists every child of n, anonymous tokens included, skipping
// comments.
func children(n sitter.Node) []sitter.Node {
	out := make([]sitter.Node, 0, n.ChildCount())

	for idx := range n.ChildCount() {
		child := n.Child(idx)
		if isExtra(child) {
			continue
		}

		out = append(out, child)
	}

	return out
}

// hasToken reports whether n has a direct anonymous child of the given type.
func hasToken(n sitter.Node, token string) bool {
	for _, child := range children(n) {
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}

	return false
}

// namedAfter lists named children following the first token of the given
// type.
func namedAfter(n sitter.Node, token string) []sitter.Node {
	var (
		out  []sitter.Node
		seen bool
	)

	for _, child := range children(n) {
		switch {
		case !seen && !child.IsNamed() && child.Type() == token:
			seen = true
		case seen && child.IsNamed():
			out = append(out, child)
		}
	}

	return out
}

// namedBefore lists named children preceding the first token of the given
// type, or all of them when the token is absent.
func namedBefore(n sitter.Node, token string) []sitter.Node {
	var out []sitter.Node

	for _, child := range children(n) {
		if !child.IsNamed() && child.Type() == token {
			break
		}

		if child.IsNamed() {
			out = append(out, child)
		}
	}

	return out
}

func field(n sitter.Node, name string) (sitter.Node, bool) {
	child := n.ChildByFieldName(name)
	if child.IsNull() {
		return child, false
	}

	return child, true
}

// rawList unwraps a raw list field.
func rawList(value any) []any {
	list, _ := value.([]any)

	return list
}

// withContext marks an assignment or deletion target. Tuples, lists and
// starred targets pass the context down to their elements.
func withContext(value any, ctx string) {
	raw, ok := value.(*node.RawNode)
	if !ok || raw == nil {
		return
	}

	switch raw.Tag {
	case "Name", "Attribute", "Subscript":
		raw.Fields["ctx"] = ctx
	case "Starred":
		raw.Fields["ctx"] = ctx
		withContext(raw.Fields["value"], ctx)
	case "Tuple", "List":
		raw.Fields["ctx"] = ctx

		for _, elem := range rawList(raw.Fields["elts"]) {
			withContext(elem, ctx)
		}
	}
}
