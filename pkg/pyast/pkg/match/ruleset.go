package match

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Ruleset is a fixed collection of rules grouped by the kind they target,
// plus generic rules that apply to every kind. The table is built once by
// NewRuleset; rules keep their declaration order within each group.
type Ruleset struct {
	rules     []*Rule
	byKind    map[node.Kind][]*Rule
	generic   []*Rule
	maxRounds int
	logger    *slog.Logger
	observer  func(rule *Rule)
}

// NewRuleset groups rules by kind. Nil rules are skipped.
func NewRuleset(rules ...*Rule) *Ruleset {
	rs := &Ruleset{byKind: make(map[node.Kind][]*Rule)}

	for _, rule := range rules {
		if rule == nil || rule.Match == nil || rule.Rewrite == nil {
			continue
		}

		rs.rules = append(rs.rules, rule)

		if kind := rule.Kind(); kind != "" {
			rs.byKind[kind] = append(rs.byKind[kind], rule)
		} else {
			rs.generic = append(rs.generic, rule)
		}
	}

	return rs
}

// WithMaxRounds caps the rewrites applied to a single node; zero means no cap.
func (rs *Ruleset) WithMaxRounds(limit int) *Ruleset {
	rs.maxRounds = max(limit, 0)

	return rs
}

// WithLogger sets the logger used for per-rule debug records.
func (rs *Ruleset) WithLogger(logger *slog.Logger) *Ruleset {
	rs.logger = logger

	return rs
}

// WithObserver registers a callback invoked after every applied rewrite.
func (rs *Ruleset) WithObserver(observer func(rule *Rule)) *Ruleset {
	rs.observer = observer

	return rs
}

func (rs *Ruleset) log() *slog.Logger {
	if rs.logger != nil {
		return rs.logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Rules returns every rule in declaration order.
func (rs *Ruleset) Rules() []*Rule {
	return append([]*Rule(nil), rs.rules...)
}

// RulesFor returns the rules for kind followed by the generic rules.
func (rs *Ruleset) RulesFor(kind node.Kind) []*Rule {
	specific := rs.byKind[kind]
	out := make([]*Rule, 0, len(specific)+len(rs.generic))
	out = append(out, specific...)

	return append(out, rs.generic...)
}

// Matches reports whether any rule applies to n, so rulesets nest as matchers.
func (rs *Ruleset) Matches(n node.Node) bool {
	if isNil(n) {
		return false
	}

	for _, rule := range rs.RulesFor(n.Kind()) {
		if rule.Matches(n) {
			return true
		}
	}

	return false
}

// Transform rewrites n in place of its parent without descending: the first
// matching rule rewrites the node and the next round starts on the result,
// until no rule matches. It returns the final node and the number of
// rewrites; a nil node means the last rewrite removed it.
func (rs *Ruleset) Transform(n node.Node) (node.Node, int, error) {
	return rs.transform(n, rs.observer)
}

// transform reports every applied rule to observe instead of mutating the
// ruleset, so concurrent runs can count independently.
func (rs *Ruleset) transform(n node.Node, observe func(rule *Rule)) (node.Node, int, error) {
	rewrites := 0

	for !isNil(n) {
		rule := rs.firstMatch(n)
		if rule == nil {
			return n, rewrites, nil
		}

		if rs.maxRounds > 0 && rewrites >= rs.maxRounds {
			return n, rewrites, fmt.Errorf("%w: %d rewrites on %s (last rule %s)",
				ErrRoundLimit, rewrites, n.Kind(), rule.Name)
		}

		before := n.Kind()
		n = rule.rewrite(n)
		rewrites++

		rs.log().Debug("rule applied", "rule", rule.Name, "kind", string(before), "round", rewrites)

		if observe != nil {
			observe(rule)
		}
	}

	return nil, rewrites, nil
}

func (rs *Ruleset) firstMatch(n node.Node) *Rule {
	for _, rule := range rs.RulesFor(n.Kind()) {
		if rule.Matches(n) {
			return rule
		}
	}

	return nil
}

// Visit rewrites the whole tree: the node is transformed until no rule
// matches, then every child is visited the same way. A child rewritten to
// nil is removed from its list or unset. Errors carry the field path of
// the failing child as nested *node.FieldError values.
func (rs *Ruleset) Visit(n node.Node) (node.Node, error) {
	return rs.visit(n, rs.observer)
}

func (rs *Ruleset) visit(n node.Node, observe func(rule *Rule)) (node.Node, error) {
	transformed, _, err := rs.transform(n, observe)
	if err != nil || isNil(transformed) {
		return transformed, err
	}

	return transformed, node.MapChildren(transformed, func(child node.Node) (node.Node, error) {
		return rs.visit(child, observe)
	})
}
