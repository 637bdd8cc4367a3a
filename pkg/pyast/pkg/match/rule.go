package match

import (
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// RewriteFunc rewrites a matched node. It may mutate the node in place or
// return a replacement; returning nil removes the node from its parent.
type RewriteFunc func(n node.Node) node.Node

// Rule pairs a match with a rewrite.
type Rule struct {
	Name    string
	Match   *Match
	Rewrite RewriteFunc
}

// Then binds a rewrite to the match.
func (m *Match) Then(name string, rewrite RewriteFunc) *Rule {
	return &Rule{Name: name, Match: m, Rewrite: rewrite}
}

// Matches implements Matcher.
func (r *Rule) Matches(n node.Node) bool {
	return r.Match.Matches(n)
}

// Kind returns the kind the rule targets, empty for generic rules.
func (r *Rule) Kind() node.Kind {
	return r.Match.NodeKind()
}

// Apply returns the rewritten node when the match holds and n unchanged
// otherwise.
func (r *Rule) Apply(n node.Node) node.Node {
	if !r.Matches(n) {
		return n
	}

	return r.rewrite(n)
}

func (r *Rule) rewrite(n node.Node) node.Node {
	out := r.Rewrite(n)

	if ex, ok := out.(node.Ex); ok {
		return ex.Node()
	}

	return out
}

// String names the rule for logs.
func (r *Rule) String() string {
	return r.Name + ": " + r.Match.String()
}
