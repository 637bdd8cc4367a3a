package node

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// DefaultDumpDepth is the nesting cap used by callers that do not pick one.
const DefaultDumpDepth = 3

// Dump renders the full structure of n in the style of Python's ast.dump.
func Dump(n Node) string {
	return DumpDepth(n, -1)
}

// DumpDepth renders n down to depth levels of nesting; deeper nodes print as
// the placeholder `Kind(...)`. A negative depth means no cap.
func DumpDepth(n Node, depth int) string {
	var sb strings.Builder

	dumpValue(&sb, n, depth)

	return sb.String()
}

func dumpValue(sb *strings.Builder, value any, depth int) {
	switch typed := value.(type) {
	case nil:
		sb.WriteString("None")

		return
	case Node:
		dumpNode(sb, typed, depth)

		return
	case *int:
		if typed == nil {
			sb.WriteString("None")
		} else {
			sb.WriteString(strconv.Itoa(*typed))
		}

		return
	case int:
		sb.WriteString(strconv.Itoa(typed))

		return
	case string:
		sb.WriteString(quoteString(typed, '\''))

		return
	}

	if text, err := literalRepr(value, '\''); err == nil {
		sb.WriteString(text)

		return
	}

	list := reflect.ValueOf(value)
	if list.Kind() != reflect.Slice {
		sb.WriteString("?")

		return
	}

	sb.WriteByte('[')

	for idx := range list.Len() {
		if idx > 0 {
			sb.WriteString(", ")
		}

		dumpValue(sb, list.Index(idx).Interface(), depth)
	}

	sb.WriteByte(']')
}

func dumpNode(sb *strings.Builder, n Node, depth int) {
	if isNilNode(n) {
		sb.WriteString("None")

		return
	}

	sb.WriteString(string(n.Kind()))

	if depth == 0 {
		sb.WriteString("(...)")

		return
	}

	sb.WriteByte('(')

	written := 0

	for _, field := range dumpFields(n) {
		value, err := Get(n, field)
		if err != nil {
			continue
		}

		if written > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(field)
		sb.WriteByte('=')
		dumpValue(sb, value, depth-1)

		written++
	}

	sb.WriteByte(')')
}

func dumpFields(n Node) []string {
	raw, ok := n.(*RawNode)
	if !ok {
		return Fields(n)
	}

	names := make([]string, 0, len(raw.Fields))
	for name := range raw.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
