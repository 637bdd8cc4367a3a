package mapping //nolint:testpackage // Tests reach resolvePath directly.

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/match"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

func bin(left node.Expr, op node.BinaryOperator, right node.Expr) *node.BinOp {
	return &node.BinOp{Left: left, Op: op, Right: right}
}

func renderVisited(t *testing.T, rs *match.Ruleset, tree node.Node) string {
	t.Helper()

	result, err := rs.Visit(tree)
	require.NoError(t, err)

	rendered, err := node.Render(result)
	require.NoError(t, err)

	return rendered
}

func TestLoadRulesetSimplifies(t *testing.T) {
	t.Parallel()

	for _, file := range []string{"simplify.yaml", "simplify.toml"} {
		t.Run(file, func(t *testing.T) {
			t.Parallel()

			rs, err := LoadRuleset(filepath.Join("testdata", file))
			require.NoError(t, err)
			require.Len(t, rs.Rules(), 4)

			a, b, c := node.NewName("a"), node.NewName("b"), node.NewName("c")
			zero, one := node.NewConstant(0), node.NewConstant(1)

			// a + 0 + (b * 1 * c)
			tree := bin(bin(a, node.Add, zero), node.Add, bin(bin(b, node.Mult, one), node.Mult, c))

			assert.Equal(t, "a + b * c", renderVisited(t, rs, tree))
			assert.Equal(t, "a * 1", rs.Rules()[2].Name)
		})
	}
}

func TestLoadRulesetCleanup(t *testing.T) {
	t.Parallel()

	rs, err := LoadRuleset(filepath.Join("testdata", "cleanup.yaml"))
	require.NoError(t, err)

	identity := &node.Call{
		Func: node.NewName("identity"),
		Args: []node.Expr{bin(node.NewName("old_helper"), node.Sub, node.NewConstant(0))},
	}

	module := &node.Module{Body: []node.Stmt{
		&node.ExprStmt{Value: identity},
		&node.Pass{},
		&node.ExprStmt{Value: &node.Call{Func: node.NewName("identity")}},
		&node.Return{Value: bin(node.NewName("x"), node.Mult, node.NewConstant(0))},
	}}

	assert.Equal(t, "helper\nidentity()\nreturn x * 0", renderVisited(t, rs, module))
}

func TestParseInline(t *testing.T) {
	t.Parallel()

	const doc = `
rules:
  - name: negative literal
    match:
      kind: UnaryOp
      fields:
        op: USub
        operand: {kind: Constant}
    rewrite:
      set: {op: UAdd}
  - name: either side
    match:
      kind: Compare
      any: true
      when:
        - fields: {left: {kind: Name, fields: {id: a}}}
        - fields: {left: {kind: Name, fields: {id: b}}}
    rewrite:
      replace_with: left
`

	rules, err := Parse(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	negative := &node.UnaryOp{Op: node.USub, Operand: node.NewConstant(3)}
	result := rules[0].Apply(negative)
	assert.Same(t, negative, result, "set rewrites in place")
	assert.Equal(t, node.UAdd, negative.Op)

	compare := func(id string) *node.Compare {
		return &node.Compare{
			Left:        node.NewName(id),
			Ops:         []node.CmpOperator{node.Lt},
			Comparators: []node.Expr{node.NewConstant(1)},
		}
	}

	assert.Equal(t, node.KindName, rules[1].Apply(compare("a")).Kind())
	assert.Equal(t, node.KindName, rules[1].Apply(compare("b")).Kind())
	assert.Equal(t, node.KindCompare, rules[1].Apply(compare("c")).Kind())
}

func TestParseInvalidRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing name",
			doc:  "rules:\n  - match: {kind: Pass}\n    rewrite: {delete: true}\n",
			want: "missing name",
		},
		{
			name: "unknown kind",
			doc:  "rules:\n  - name: r\n    match: {kind: Switch}\n    rewrite: {delete: true}\n",
			want: `unknown kind "Switch"`,
		},
		{
			name: "unknown field",
			doc:  "rules:\n  - name: r\n    match: {kind: Name, fields: {value: 1}}\n    rewrite: {delete: true}\n",
			want: `Name has no field "value"`,
		},
		{
			name: "no action",
			doc:  "rules:\n  - name: r\n    match: {kind: Pass}\n",
			want: "exactly one of",
		},
		{
			name: "two actions",
			doc:  "rules:\n  - name: r\n    match: {kind: Pass}\n    rewrite: {delete: true, replace_with: value}\n",
			want: "exactly one of",
		},
		{
			name: "replace with unknown field",
			doc:  "rules:\n  - name: r\n    match: {kind: Return}\n    rewrite: {replace_with: target}\n",
			want: `Return has no field "target"`,
		},
		{
			name: "set with wrong type",
			doc:  "rules:\n  - name: r\n    match: {kind: Name}\n    rewrite: {set: {id: 3}}\n",
			want: "set id",
		},
		{
			name: "table in list",
			doc:  "rules:\n  - name: r\n    match: {kind: BinOp, fields: {left: [{kind: Name}]}}\n    rewrite: {delete: true}\n",
			want: "inside lists",
		},
		{
			name: "unknown nested key",
			doc:  "rules:\n  - name: r\n    match: {kind: BinOp, fields: {left: {type: Name}}}\n    rewrite: {delete: true}\n",
			want: `unknown match key "type"`,
		},
		{
			name: "kind conflict",
			doc:  "rules:\n  - name: r\n    match: {kind: Name, when: [{kind: Constant}]}\n    rewrite: {delete: true}\n",
			want: "multiple node kinds",
		},
		{
			name: "unknown top-level key",
			doc:  "rules: []\nversion: 2\n",
			want: "yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.doc), FormatYAML)
			require.ErrorIs(t, err, ErrInvalidRule)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseReportsEveryInvalidRule(t *testing.T) {
	t.Parallel()

	const doc = `
[[rules]]
name = "first"
match = { kind = "Nope" }
rewrite = { delete = true }

[[rules]]
name = "fine"
match = { kind = "Pass" }
rewrite = { delete = true }

[[rules]]
name = "third"
match = { kind = "Pass" }
`

	_, err := Parse(strings.NewReader(doc), FormatTOML)
	require.ErrorIs(t, err, ErrInvalidRule)
	assert.Contains(t, err.Error(), "rule 0 (first)")
	assert.Contains(t, err.Error(), "rule 2 (third)")
	assert.NotContains(t, err.Error(), "fine")
}

func TestParseTOMLUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("[[rules]]\nname = \"r\"\npriority = 3\n"), FormatTOML)
	require.ErrorIs(t, err, ErrInvalidRule)
	assert.Contains(t, err.Error(), "priority")
}

func TestParseTOMLNestedFieldTables(t *testing.T) {
	t.Parallel()

	const doc = `
[[rules]]
name = "negative literal"

[rules.match]
kind = "UnaryOp"

[rules.match.fields]
op = "USub"

[rules.match.fields.operand]
kind = "Constant"

[rules.match.fields.operand.fields]
value = 3

[rules.rewrite.set]
op = "UAdd"
`

	rules, err := Parse(strings.NewReader(doc), FormatTOML)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	negative := &node.UnaryOp{Op: node.USub, Operand: node.NewConstant(3)}
	rules[0].Apply(negative)
	assert.Equal(t, node.UAdd, negative.Op)
}

func TestParseTOMLUnknownKeyBesideFields(t *testing.T) {
	t.Parallel()

	const doc = `
[[rules]]
name = "r"

[rules.match]
kind = "Name"
fields = { id = "a" }
priority = 3

[rules.rewrite]
delete = true
`

	_, err := Parse(strings.NewReader(doc), FormatTOML)
	require.ErrorIs(t, err, ErrInvalidRule)
	assert.Contains(t, err.Error(), "rules.match.priority")
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Format
		err  error
	}{
		{"rules.yaml", FormatYAML, nil},
		{"rules.YML", FormatYAML, nil},
		{"dir/rules.toml", FormatTOML, nil},
		{"rules.json", "", ErrUnknownFormat},
		{"rules", "", ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := DetectFormat(tt.path)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join("testdata", "rules.json"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadFile(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)

	_, err = Decode(strings.NewReader(""), Format("ini"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	file, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, file.Rules, "an empty document holds no rules")
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	call := &node.Call{
		Func: node.NewName("f"),
		Args: []node.Expr{node.NewName("x"), node.NewConstant(2)},
	}

	target, err := resolvePath(call, []string{"args", "1"})
	require.NoError(t, err)
	assert.Equal(t, node.KindConstant, target.Kind())

	target, err = resolvePath(call, []string{"func"})
	require.NoError(t, err)
	assert.Equal(t, node.KindName, target.Kind())

	for _, path := range [][]string{{"args", "2"}, {"args", "first"}, {"func", "id", "0"}, {"keywords"}, {"body"}} {
		_, err := resolvePath(call, path)
		assert.Error(t, err, strings.Join(path, "."))
	}
}
