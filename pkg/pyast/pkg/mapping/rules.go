// Package mapping loads declarative rewrite rules from YAML or TOML files
// and compiles them into match rules.
package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/match"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Sentinel errors for rule files.
var (
	ErrInvalidRule   = errors.New("invalid rule")
	ErrUnknownFormat = errors.New("unknown rule file format")
)

// File is the top-level document of a rule file.
type File struct {
	Rules []RuleSpec `yaml:"rules" toml:"rules"`
}

// RuleSpec declares one rule: what to match and how to rewrite it.
type RuleSpec struct {
	Name    string      `yaml:"name"    toml:"name"`
	Match   MatchSpec   `yaml:"match"   toml:"match"`
	Rewrite RewriteSpec `yaml:"rewrite" toml:"rewrite"`
}

// MatchSpec mirrors match.New options. A field value that is a table with
// any of the keys kind, fields, when or any is a nested match; a list checks
// membership; anything else compares by value.
type MatchSpec struct {
	Kind   string         `yaml:"kind"   toml:"kind"`
	Any    bool           `yaml:"any"    toml:"any"`
	When   []MatchSpec    `yaml:"when"   toml:"when"`
	Fields map[string]any `yaml:"fields" toml:"fields"`
}

// RewriteSpec holds exactly one action: replace the node with the node at a
// dotted field path (list elements by index), set fields in place, or delete
// the node from its parent.
type RewriteSpec struct {
	ReplaceWith string         `yaml:"replace_with" toml:"replace_with"`
	Set         map[string]any `yaml:"set"          toml:"set"`
	Delete      bool           `yaml:"delete"       toml:"delete"`
}

// Compile validates every rule spec and builds the rules. All invalid rules
// are reported together.
func (f *File) Compile() ([]*match.Rule, error) {
	rules := make([]*match.Rule, 0, len(f.Rules))

	var errs []error

	for idx, spec := range f.Rules {
		rule, err := spec.Compile()
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d (%s): %w", idx, spec.Name, err))

			continue
		}

		rules = append(rules, rule)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return rules, nil
}

// Compile builds the rule.
func (spec RuleSpec) Compile() (*match.Rule, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidRule)
	}

	m, err := spec.Match.build()
	if err != nil {
		return nil, err
	}

	rewrite, guard, err := spec.Rewrite.build(node.Kind(spec.Match.Kind))
	if err != nil {
		return nil, err
	}

	if guard != nil {
		m, err = m.And(match.Must(match.When(guard)))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
	}

	return m.Then(spec.Name, rewrite), nil
}

func (spec MatchSpec) build() (*match.Match, error) {
	var opts []match.Option

	if spec.Kind != "" {
		info, ok := node.Lookup(node.Kind(spec.Kind))
		if !ok {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, spec.Kind)
		}

		for _, name := range sortedKeys(spec.Fields) {
			if !hasField(info.New(), name) {
				return nil, fmt.Errorf("%w: %s has no field %q", ErrInvalidRule, spec.Kind, name)
			}
		}

		opts = append(opts, match.Kind(info.Kind))
	}

	if spec.Any {
		opts = append(opts, match.AnyOf())
	}

	for _, sub := range spec.When {
		built, err := sub.build()
		if err != nil {
			return nil, err
		}

		opts = append(opts, match.When(built))
	}

	for _, name := range sortedKeys(spec.Fields) {
		expected, err := expectation(spec.Fields[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		opts = append(opts, match.Field(name, expected))
	}

	m, err := match.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}

	return m, nil
}

func expectation(value any) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		spec, err := specFromTable(typed)
		if err != nil {
			return nil, err
		}

		return spec.build()
	case []any:
		for _, elem := range typed {
			if _, isTable := elem.(map[string]any); isTable {
				return nil, fmt.Errorf("%w: nested matches are not allowed inside lists", ErrInvalidRule)
			}
		}

		return typed, nil
	default:
		return value, nil
	}
}

// specFromTable decodes a nested match written inline as a table.
func specFromTable(table map[string]any) (MatchSpec, error) {
	var spec MatchSpec

	for key, value := range table {
		switch key {
		case "kind":
			kind, ok := value.(string)
			if !ok {
				return spec, fmt.Errorf("%w: kind must be a string, got %T", ErrInvalidRule, value)
			}

			spec.Kind = kind
		case "any":
			anyOf, ok := value.(bool)
			if !ok {
				return spec, fmt.Errorf("%w: any must be a boolean, got %T", ErrInvalidRule, value)
			}

			spec.Any = anyOf
		case "fields":
			fields, ok := value.(map[string]any)
			if !ok {
				return spec, fmt.Errorf("%w: fields must be a table, got %T", ErrInvalidRule, value)
			}

			spec.Fields = fields
		case "when":
			list, ok := value.([]any)
			if !ok {
				return spec, fmt.Errorf("%w: when must be a list, got %T", ErrInvalidRule, value)
			}

			for _, elem := range list {
				table, isTable := elem.(map[string]any)
				if !isTable {
					return spec, fmt.Errorf("%w: when entries must be tables, got %T", ErrInvalidRule, elem)
				}

				sub, err := specFromTable(table)
				if err != nil {
					return spec, err
				}

				spec.When = append(spec.When, sub)
			}
		default:
			return spec, fmt.Errorf("%w: unknown match key %q", ErrInvalidRule, key)
		}
	}

	return spec, nil
}

func (spec RewriteSpec) build(kind node.Kind) (match.RewriteFunc, func(node.Node) bool, error) {
	actions := 0

	for _, set := range []bool{spec.ReplaceWith != "", len(spec.Set) > 0, spec.Delete} {
		if set {
			actions++
		}
	}

	if actions != 1 {
		return nil, nil, fmt.Errorf("%w: rewrite needs exactly one of replace_with, set or delete", ErrInvalidRule)
	}

	switch {
	case spec.Delete:
		return func(node.Node) node.Node { return nil }, nil, nil
	case spec.ReplaceWith != "":
		path := strings.Split(spec.ReplaceWith, ".")

		if info, ok := node.Lookup(kind); ok && !hasField(info.New(), path[0]) {
			return nil, nil, fmt.Errorf("%w: %s has no field %q", ErrInvalidRule, kind, path[0])
		}

		resolves := func(n node.Node) bool {
			_, err := resolvePath(n, path)

			return err == nil
		}

		replace := func(n node.Node) node.Node {
			target, err := resolvePath(n, path)
			if err != nil {
				return n
			}

			return target
		}

		return replace, resolves, nil
	default:
		return spec.setter(kind)
	}
}

func (spec RewriteSpec) setter(kind node.Kind) (match.RewriteFunc, func(node.Node) bool, error) {
	names := sortedKeys(spec.Set)

	if info, ok := node.Lookup(kind); ok {
		sample := info.New()

		for _, name := range names {
			if err := node.SetField(sample, name, spec.Set[name]); err != nil {
				return nil, nil, fmt.Errorf("%w: set %s: %w", ErrInvalidRule, name, err)
			}
		}
	}

	settable := func(n node.Node) bool {
		for _, name := range names {
			if !hasField(n, name) {
				return false
			}
		}

		return true
	}

	set := func(n node.Node) node.Node {
		for _, name := range names {
			// Checked by the guard and the sample above.
			_ = node.SetField(n, name, spec.Set[name])
		}

		return n
	}

	return set, settable, nil
}

// resolvePath follows field names and list indexes down from n.
func resolvePath(n node.Node, path []string) (node.Node, error) {
	var current any = n

	for _, segment := range path {
		switch typed := current.(type) {
		case node.Node:
			value, err := node.Get(typed, segment)
			if err != nil {
				return nil, err
			}

			current = value
		default:
			list, ok := asList(current)
			if !ok {
				return nil, fmt.Errorf("%w: cannot descend into %T at %q", ErrInvalidRule, current, segment)
			}

			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(list) {
				return nil, fmt.Errorf("%w: bad index %q", ErrInvalidRule, segment)
			}

			current = list[idx]
		}
	}

	target, ok := current.(node.Node)
	if !ok || reflect.ValueOf(target).IsZero() {
		return nil, fmt.Errorf("%w: path does not end at a node", ErrInvalidRule)
	}

	return target, nil
}

func asList(value any) ([]any, bool) {
	list := reflect.ValueOf(value)
	if list.Kind() != reflect.Slice {
		return nil, false
	}

	out := make([]any, list.Len())
	for idx := range list.Len() {
		out[idx] = list.Index(idx).Interface()
	}

	return out, true
}

func hasField(n node.Node, name string) bool {
	for _, field := range node.Fields(n) {
		if field == name {
			return true
		}
	}

	return false
}

func sortedKeys(table map[string]any) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
