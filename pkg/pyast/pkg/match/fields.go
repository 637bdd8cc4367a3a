package match

import (
	"reflect"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func fieldMatches(n node.Node, condition fieldCondition) bool {
	actual, err := node.Get(n, condition.name)
	if err != nil {
		return false
	}

	switch expected := condition.expected.(type) {
	case Matcher:
		child, ok := actual.(node.Node)

		return ok && !isNil(child) && expected.Matches(child)
	case func(node.Node) bool:
		child, ok := actual.(node.Node)

		return ok && !isNil(child) && expected(child)
	case func(any) bool:
		return expected(actual)
	case []byte, string:
		return valueEqual(actual, expected)
	}

	list := reflect.ValueOf(condition.expected)
	if list.Kind() == reflect.Slice || list.Kind() == reflect.Array {
		for idx := range list.Len() {
			if valueEqual(actual, list.Index(idx).Interface()) {
				return true
			}
		}

		return false
	}

	return valueEqual(actual, condition.expected)
}

// valueEqual extends node.ValueEqual so operator and context fields compare
// against their kind name, which is how rule files spell them.
func valueEqual(actual, expected any) bool {
	if name, ok := expected.(string); ok {
		if tag, isNode := actual.(node.Node); isNode {
			switch node.FamilyOf(tag) {
			case node.FamilyOperator, node.FamilyContext:
				return string(tag.Kind()) == name
			}
		}
	}

	if kind, ok := expected.(node.Kind); ok {
		if tag, isNode := actual.(node.Node); isNode && !isNil(tag) {
			return tag.Kind() == kind
		}
	}

	return node.ValueEqual(actual, expected)
}

func isNil(n node.Node) bool {
	if n == nil {
		return true
	}

	value := reflect.ValueOf(n)

	return value.Kind() == reflect.Pointer && value.IsNil()
}
