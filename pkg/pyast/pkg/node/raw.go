package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"strings"
)

// Keys of the raw JSON interchange format.
const (
	rawTypeKey   = "_type"
	rawLineKey   = "lineno"
	rawColumnKey = "col_offset"
)

// RawNode is a foreign, untyped tree node as produced by an external parser.
// Fields hold *RawNode, []any, string, int64, float64, bool or nil values.
// Unregistered tags survive Wrap as RawNode so newer grammar additions pass
// through untouched; RawNode satisfies every family interface for that reason.
type RawNode struct {
	Tag      string
	Fields   map[string]any
	Position *Position
}

// NewRaw builds a raw node from alternating field names and values.
func NewRaw(tag string, pairs ...any) *RawNode {
	raw := &RawNode{Tag: tag, Fields: make(map[string]any, len(pairs)/2)} //nolint:mnd // name/value pairs

	for idx := 0; idx+1 < len(pairs); idx += 2 {
		name, ok := pairs[idx].(string)
		if !ok {
			continue
		}

		raw.Fields[name] = pairs[idx+1]
	}

	return raw
}

// At sets the raw position and returns the node.
func (raw *RawNode) At(line, col int) *RawNode {
	raw.Position = &Position{Lineno: line, ColOffset: col}

	return raw
}

// Kind implements Node.
func (raw *RawNode) Kind() Kind { return Kind(raw.Tag) }

// Pos implements Node.
func (raw *RawNode) Pos() *Position { return raw.Position }

// SetPos implements Node.
func (raw *RawNode) SetPos(pos *Position) { raw.Position = pos }

func (*RawNode) exprNode() {}
func (*RawNode) stmtNode() {}
func (*RawNode) dataNode() {}
func (*RawNode) rootNode() {}

// Wrap converts a raw tree into typed nodes. Lists are wrapped element-wise;
// scalars pass through. A raw node whose tag has no registered kind is
// returned unchanged, with its own children wrapped.
func Wrap(value any) (any, error) {
	switch typed := value.(type) {
	case *RawNode:
		return WrapNode(typed)
	case []any:
		out := make([]any, len(typed))

		for idx, elem := range typed {
			wrapped, err := Wrap(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", idx, err)
			}

			out[idx] = wrapped
		}

		return out, nil
	default:
		return value, nil
	}
}

// WrapNode converts one raw node, see Wrap.
func WrapNode(raw *RawNode) (Node, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent node
	}

	info, ok := registry[raw.Kind()]
	if !ok {
		for name, value := range raw.Fields {
			wrapped, err := Wrap(value)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", raw.Tag, name, err)
			}

			raw.Fields[name] = wrapped
		}

		return raw, nil
	}

	typed := info.New()
	if info.Family == FamilyOperator || info.Family == FamilyContext {
		return typed, nil
	}

	for _, field := range info.Fields {
		value, present := raw.Fields[field.Name]
		if !present {
			continue
		}

		if value == nil {
			if raw.Kind() == KindConstant && field.Name == "value" {
				value = None
			} else {
				continue
			}
		}

		wrapped, err := Wrap(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", raw.Tag, field.Name, err)
		}

		if setErr := SetField(typed, field.Name, wrapped); setErr != nil {
			return nil, setErr
		}
	}

	if raw.Position != nil {
		pos := *raw.Position
		typed.SetPos(&pos)
	}

	return typed, nil
}

// Unwrap converts a typed tree back into raw nodes. Unset fields with no
// default are omitted.
func Unwrap(n Node) *RawNode {
	if n == nil {
		return nil
	}

	if raw, ok := n.(*RawNode); ok {
		return raw
	}

	out := &RawNode{Tag: string(n.Kind()), Fields: make(map[string]any)}
	if pos := n.Pos(); pos != nil {
		copied := *pos
		out.Position = &copied
	}

	for _, field := range Fields(n) {
		value, err := Get(n, field)
		if err != nil {
			continue
		}

		out.Fields[field] = unwrapValue(value)
	}

	return out
}

func unwrapValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case NoneType:
		return nil
	case Node:
		if isNilNode(typed) {
			return nil
		}

		return Unwrap(typed)
	case *int:
		if typed == nil {
			return nil
		}

		return int64(*typed)
	case int:
		return int64(typed)
	case string, bool, int64, float64, []byte, *big.Int, complex128, EllipsisType:
		return typed
	}

	list := reflect.ValueOf(value)
	if list.Kind() != reflect.Slice {
		return value
	}

	out := make([]any, list.Len())
	for idx := range list.Len() {
		out[idx] = unwrapValue(list.Index(idx).Interface())
	}

	return out
}

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}

	value := reflect.ValueOf(n)

	return value.Kind() == reflect.Pointer && value.IsNil()
}

// DecodeRaw reads a JSON raw tree. Objects carrying a "_type" key become
// RawNode values; integral numbers become int64 and others float64.
func DecodeRaw(reader io.Reader) (any, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var doc any

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRawTree, err)
	}

	return fromJSON(doc)
}

func fromJSON(value any) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		return rawFromObject(typed)
	case []any:
		out := make([]any, len(typed))

		for idx, elem := range typed {
			converted, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}

			out[idx] = converted
		}

		return out, nil
	case json.Number:
		return numberFromJSON(typed)
	default:
		return value, nil
	}
}

var errMissingType = errors.New(`object without "_type"`)

func rawFromObject(object map[string]any) (*RawNode, error) {
	tag, ok := object[rawTypeKey].(string)
	if !ok || tag == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRawTree, errMissingType)
	}

	raw := &RawNode{Tag: tag, Fields: make(map[string]any, len(object))}

	line, hasLine := object[rawLineKey].(json.Number)
	col, hasCol := object[rawColumnKey].(json.Number)

	if hasLine && hasCol {
		lineValue, lineErr := line.Int64()
		colValue, colErr := col.Int64()

		if lineErr == nil && colErr == nil {
			raw.Position = &Position{Lineno: int(lineValue), ColOffset: int(colValue)}
		}
	}

	for key, value := range object {
		if key == rawTypeKey || key == rawLineKey || key == rawColumnKey || strings.HasPrefix(key, "end_") {
			continue
		}

		converted, err := fromJSON(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", tag, key, err)
		}

		raw.Fields[key] = converted
	}

	return raw, nil
}

func numberFromJSON(number json.Number) (any, error) {
	text := number.String()
	if !strings.ContainsAny(text, ".eE") {
		if value, err := number.Int64(); err == nil {
			return value, nil
		}

		if big, ok := new(big.Int).SetString(text, 10); ok {
			return big, nil
		}
	}

	value, err := number.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: number %s: %w", ErrInvalidRawTree, text, err)
	}

	return value, nil
}

// ToJSON converts a raw tree into plain JSON-ready values.
func ToJSON(value any) any {
	switch typed := value.(type) {
	case *RawNode:
		if typed == nil {
			return nil
		}

		object := make(map[string]any, len(typed.Fields)+3) //nolint:mnd // type plus position keys
		object[rawTypeKey] = typed.Tag

		if typed.Position != nil {
			object[rawLineKey] = typed.Position.Lineno
			object[rawColumnKey] = typed.Position.ColOffset
		}

		for key, field := range typed.Fields {
			object[key] = ToJSON(field)
		}

		return object
	case []any:
		out := make([]any, len(typed))
		for idx, elem := range typed {
			out[idx] = ToJSON(elem)
		}

		return out
	case []byte:
		return string(typed)
	case *big.Int:
		return json.Number(typed.String())
	case complex128:
		return fmt.Sprintf("%v", typed)
	case EllipsisType:
		return "..."
	default:
		return value
	}
}

// EncodeRaw writes n as an indented JSON raw tree.
func EncodeRaw(writer io.Writer, n Node) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(ToJSON(Unwrap(n))); err != nil {
		return fmt.Errorf("encode raw tree: %w", err)
	}

	return nil
}
