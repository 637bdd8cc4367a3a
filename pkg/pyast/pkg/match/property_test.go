package match //nolint:testpackage // Tests need access to internal fields.

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

var propertyKinds = []node.Kind{node.KindConstant, node.KindName, ""}

func drawMatch(rt *rapid.T, label string) *Match {
	kind := rapid.SampledFrom(propertyKinds).Draw(rt, label+"Kind")
	threshold := rapid.IntRange(-5, 5).Draw(rt, label+"Threshold")

	opts := []Option{When(func(n node.Node) bool {
		constant, ok := n.(*node.Constant)
		if !ok {
			return threshold < 0
		}

		value, _ := constant.Value.(int64)

		return value > int64(threshold)
	})}

	if kind != "" {
		opts = append(opts, Kind(kind))
	}

	return Must(opts...)
}

func drawNode(rt *rapid.T) node.Node {
	if rapid.Bool().Draw(rt, "isName") {
		return node.NewName("x")
	}

	return node.NewConstant(rapid.IntRange(-10, 10).Draw(rt, "value"))
}

func TestOrIsDisjunction(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		left, right := drawMatch(rt, "left"), drawMatch(rt, "right")
		target := drawNode(rt)

		want := left.Matches(target) || right.Matches(target)
		if got := left.Or(right).Matches(target); got != want {
			rt.Fatalf("%s | %s on %s: got %v, want %v", left, right, node.Dump(target), got, want)
		}
	})
}

func TestAndIsConjunction(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		left, right := drawMatch(rt, "left"), drawMatch(rt, "right")
		target := drawNode(rt)

		both, err := left.And(right)

		conflicting := left.NodeKind() != "" && right.NodeKind() != "" && left.NodeKind() != right.NodeKind()
		if conflicting {
			if err == nil {
				rt.Fatalf("%s & %s: expected a kind conflict", left, right)
			}

			return
		}

		if err != nil {
			rt.Fatalf("%s & %s: %v", left, right, err)
		}

		want := left.Matches(target) && right.Matches(target)
		if got := both.Matches(target); got != want {
			rt.Fatalf("%s & %s on %s: got %v, want %v", left, right, node.Dump(target), got, want)
		}
	})
}

func TestRuleApplyLeavesNonMatches(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		m := drawMatch(rt, "rule")
		target := drawNode(rt)

		rule := m.Then("replace", func(node.Node) node.Node { return node.NewName("replaced") })
		result := rule.Apply(target)

		if m.Matches(target) {
			if name, ok := result.(*node.Name); !ok || name.ID != "replaced" {
				rt.Fatalf("matching node was not rewritten: %s", node.Dump(result))
			}

			return
		}

		if result != target {
			rt.Fatalf("non-matching node was replaced: %s", node.Dump(result))
		}
	})
}
