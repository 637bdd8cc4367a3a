// Package match provides composable node predicates, conditional rewrite
// rules and a ruleset driver that rewrites whole trees.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Sentinel errors for match construction and rewriting.
var (
	ErrKindConflict = errors.New("cannot match multiple node kinds")
	ErrBadCondition = errors.New("unsupported match condition")
	ErrRoundLimit   = errors.New("rewrite round limit exceeded")
)

// Matcher is anything that can test a node.
type Matcher interface {
	Matches(n node.Node) bool
}

// Predicate adapts a plain function to Matcher.
type Predicate func(n node.Node) bool

// Matches implements Matcher.
func (p Predicate) Matches(n node.Node) bool { return p(n) }

type fieldCondition struct {
	name     string
	expected any
}

// Match is a predicate over a node's kind, nested conditions and field
// values. Conditions and field checks combine in all-mode by default and in
// any-mode when built with AnyOf. The kind filter always holds first.
type Match struct {
	kind       node.Kind
	conditions []Matcher
	fields     []fieldCondition
	anyOf      bool
}

// Option configures a Match under construction.
type Option func(*Match) error

// Kind restricts the match to nodes of one kind.
func Kind(kind node.Kind) Option {
	return func(m *Match) error {
		if m.kind != "" && m.kind != kind {
			return fmt.Errorf("%w: %s and %s", ErrKindConflict, m.kind, kind)
		}

		m.kind = kind

		return nil
	}
}

// When adds nested conditions: a *Match, any Matcher, or a func(node.Node) bool.
func When(conditions ...any) Option {
	return func(m *Match) error {
		for _, condition := range conditions {
			switch typed := condition.(type) {
			case *Match:
				if typed == nil {
					return fmt.Errorf("%w: nil match", ErrBadCondition)
				}

				m.conditions = append(m.conditions, typed)
			case Matcher:
				m.conditions = append(m.conditions, typed)
			case func(node.Node) bool:
				m.conditions = append(m.conditions, Predicate(typed))
			default:
				return fmt.Errorf("%w: %T", ErrBadCondition, condition)
			}
		}

		return nil
	}
}

// Field checks the named field. A slice or array expected value checks
// membership; a Matcher, *Match, func(node.Node) bool or func(any) bool is
// invoked on the field value; anything else compares with node.ValueEqual.
func Field(name string, expected any) Option {
	return func(m *Match) error {
		m.fields = append(m.fields, fieldCondition{name: name, expected: expected})

		return nil
	}
}

// AnyOf switches the match to any-mode: one holding condition suffices.
func AnyOf() Option {
	return func(m *Match) error {
		m.anyOf = true

		return nil
	}
}

// New builds a match. In all-mode a nested match's kind filter is lifted to
// the outer match, and disagreeing kinds fail with ErrKindConflict. In
// any-mode kinds lift only when every condition is a match on the same kind.
func New(opts ...Option) (*Match, error) {
	m := &Match{}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	if m.anyOf {
		m.liftSharedKind()

		return m, nil
	}

	conditions := m.conditions[:0:0]

	for _, condition := range m.conditions {
		sub, ok := condition.(*Match)
		if !ok || sub.kind == "" {
			conditions = append(conditions, condition)

			continue
		}

		if m.kind != "" && m.kind != sub.kind {
			return nil, fmt.Errorf("%w: %s and %s", ErrKindConflict, m.kind, sub.kind)
		}

		m.kind = sub.kind

		if !sub.kindOnly() {
			conditions = append(conditions, sub)
		}
	}

	m.conditions = conditions

	return m, nil
}

// Must is New that panics on error, for package-level rule tables.
func Must(opts ...Option) *Match {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return m
}

func (m *Match) liftSharedKind() {
	if m.kind != "" || len(m.conditions) == 0 {
		return
	}

	var shared node.Kind

	for _, condition := range m.conditions {
		sub, ok := condition.(*Match)
		if !ok || sub.kind == "" || (shared != "" && sub.kind != shared) {
			return
		}

		shared = sub.kind
	}

	m.kind = shared
}

func (m *Match) kindOnly() bool {
	return len(m.conditions) == 0 && len(m.fields) == 0
}

// NodeKind returns the kind filter, empty when the match accepts any kind.
func (m *Match) NodeKind() node.Kind {
	return m.kind
}

// Matches reports whether n satisfies the match.
func (m *Match) Matches(n node.Node) bool {
	if isNil(n) {
		return false
	}

	if m.kind != "" && n.Kind() != m.kind {
		return false
	}

	if len(m.conditions) > 0 && !m.combine(len(m.conditions), func(idx int) bool {
		return m.conditions[idx].Matches(n)
	}) {
		return false
	}

	if len(m.fields) > 0 && !m.combine(len(m.fields), func(idx int) bool {
		return fieldMatches(n, m.fields[idx])
	}) {
		return false
	}

	return true
}

func (m *Match) combine(count int, check func(int) bool) bool {
	for idx := range count {
		holds := check(idx)

		if m.anyOf && holds {
			return true
		}

		if !m.anyOf && !holds {
			return false
		}
	}

	return !m.anyOf
}

// And combines two matches in all-mode.
func (m *Match) And(other *Match) (*Match, error) {
	return New(When(m, other))
}

// Or combines two matches in any-mode. It never fails.
func (m *Match) Or(other *Match) *Match {
	return Must(When(m, other), AnyOf())
}

// String renders the match for logs, e.g. `Match(kind=Constant, value=0)`.
func (m *Match) String() string {
	if len(m.fields) == 0 && len(m.conditions) > 1 && allMatches(m.conditions) {
		joiner := " & "
		if m.anyOf {
			joiner = " | "
		}

		parts := make([]string, len(m.conditions))
		for idx, condition := range m.conditions {
			parts[idx] = condition.(*Match).String()
		}

		return strings.Join(parts, joiner)
	}

	var parts []string

	for _, condition := range m.conditions {
		if sub, ok := condition.(*Match); ok {
			parts = append(parts, sub.String())
		} else {
			parts = append(parts, "<predicate>")
		}
	}

	if m.kind != "" {
		parts = append(parts, "kind="+string(m.kind))
	}

	if m.anyOf {
		parts = append(parts, "any")
	}

	for _, field := range m.fields {
		parts = append(parts, fmt.Sprintf("%s=%v", field.name, describe(field.expected)))
	}

	return "Match(" + strings.Join(parts, ", ") + ")"
}

func allMatches(conditions []Matcher) bool {
	for _, condition := range conditions {
		if _, ok := condition.(*Match); !ok {
			return false
		}
	}

	return true
}

func describe(value any) any {
	switch typed := value.(type) {
	case *Match:
		return typed.String()
	case node.Node:
		switch node.FamilyOf(typed) {
		case node.FamilyOperator, node.FamilyContext:
			return string(typed.Kind())
		}

		return node.DumpDepth(typed, 1)
	case func(any) bool, func(node.Node) bool, Matcher:
		return "<predicate>"
	default:
		return value
	}
}
