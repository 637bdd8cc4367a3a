package node

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

const fieldTag = "py"

// FieldInfo describes one declared field of a kind.
type FieldInfo struct {
	Name string
	// GoName is the struct field name.
	GoName string
	// Optional fields read as their zero value when unset.
	Optional bool
	// Bypass fields are stored verbatim and never finalized.
	Bypass     bool
	HasDefault bool
	Type       reflect.Type

	index int
}

var fieldCache sync.Map //nolint:gochecknoglobals // reflect.Type -> []FieldInfo

func fieldsOf(typ reflect.Type) []FieldInfo {
	if cached, ok := fieldCache.Load(typ); ok {
		if infos, castOK := cached.([]FieldInfo); castOK {
			return infos
		}
	}

	structType := typ
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	if structType.Kind() != reflect.Struct {
		fieldCache.Store(typ, []FieldInfo(nil))

		return nil
	}

	infos := make([]FieldInfo, 0, structType.NumField())

	for idx := range structType.NumField() {
		field := structType.Field(idx)

		tag, ok := field.Tag.Lookup(fieldTag)
		if !ok || field.Anonymous || tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		info := FieldInfo{Name: name, GoName: field.Name, Type: field.Type, index: idx}

		for opt := range strings.SplitSeq(opts, ",") {
			switch opt {
			case "optional":
				info.Optional = true
			case "bypass":
				info.Bypass = true
			}
		}

		infos = append(infos, info)
	}

	fieldCache.Store(typ, infos)

	return infos
}

func fieldByName(n Node, name string) (FieldInfo, bool) {
	for _, info := range fieldsOf(reflect.TypeOf(n)) {
		if info.Name == name {
			return info, true
		}
	}

	return FieldInfo{}, false
}

// Fields returns the declared field names of n in order.
func Fields(n Node) []string {
	infos := fieldsOf(reflect.TypeOf(n))
	names := make([]string, len(infos))

	for idx, info := range infos {
		names[idx] = info.Name
	}

	return names
}

func structValue(n Node) reflect.Value {
	value := reflect.ValueOf(n)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	return value
}

// isUnset reports whether a stored field value counts as absent.
func isUnset(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map:
		return value.IsNil()
	case reflect.String:
		return value.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int() == 0
	default:
		return value.IsZero()
	}
}

// IsSet reports whether the field holds an explicit value.
func IsSet(n Node, field string) bool {
	if raw, ok := n.(*RawNode); ok {
		_, present := raw.Fields[field]

		return present
	}

	info, ok := fieldByName(n, field)
	if !ok {
		return false
	}

	return !isUnset(structValue(n).Field(info.index))
}

// Get reads a field, resolving the default table lazily. Reading a required
// field that is unset and has no default returns ErrMissingField.
func Get(n Node, field string) (any, error) {
	if raw, ok := n.(*RawNode); ok {
		value, present := raw.Fields[field]
		if !present {
			return nil, missingField(raw.Kind(), field)
		}

		return value, nil
	}

	info, ok := fieldByName(n, field)
	if !ok {
		return nil, &FieldError{Kind: n.Kind(), Field: field, Err: ErrUnknownField}
	}

	stored := structValue(n).Field(info.index)
	if !isUnset(stored) {
		return stored.Interface(), nil
	}

	if kindInfo, known := registry[n.Kind()]; known {
		if value, hasDefault := kindInfo.Default(field); hasDefault {
			return value, nil
		}
	}

	if info.Optional {
		return reflect.Zero(info.Type).Interface(), nil
	}

	return nil, missingField(n.Kind(), field)
}

// MustGet is Get for fields known to be set; it panics on error.
func MustGet(n Node, field string) any {
	value, err := Get(n, field)
	if err != nil {
		panic(err)
	}

	return value
}

// SetField stores value into a field, converting raw literals, catalog names and
// generic slices to the declared field type.
func SetField(n Node, field string, value any) error {
	if raw, ok := n.(*RawNode); ok {
		if raw.Fields == nil {
			raw.Fields = make(map[string]any)
		}

		raw.Fields[field] = value

		return nil
	}

	info, ok := fieldByName(n, field)
	if !ok {
		return &FieldError{Kind: n.Kind(), Field: field, Err: ErrUnknownField}
	}

	converted, err := convertTo(info.Type, value, info.Bypass)
	if err != nil {
		return &FieldError{Kind: n.Kind(), Field: field, Err: err}
	}

	structValue(n).Field(info.index).Set(converted)

	return nil
}

// applyDefaults materializes every unset defaulted field.
func applyDefaults(n Node) {
	kindInfo, ok := registry[n.Kind()]
	if !ok || len(kindInfo.defaults) == 0 {
		return
	}

	target := structValue(n)

	for _, info := range kindInfo.Fields {
		stored := target.Field(info.index)
		if !isUnset(stored) {
			continue
		}

		if value, hasDefault := kindInfo.Default(info.Name); hasDefault {
			stored.Set(reflect.ValueOf(value).Convert(info.Type))
		}
	}
}

var (
	nodeType = reflect.TypeFor[Node]()
	anyType  = reflect.TypeFor[any]()
)

//nolint:cyclop,gocognit // one branch per field shape
func convertTo(target reflect.Type, value any, bypass bool) (reflect.Value, error) {
	if ex, ok := value.(Ex); ok {
		value = ex.Expr
	}

	if value == nil {
		return reflect.Zero(target), nil
	}

	if bypass || target == anyType {
		return reflect.ValueOf(normalizeLiteral(value)), nil
	}

	current := reflect.ValueOf(value)
	if current.Type().AssignableTo(target) {
		return current, nil
	}

	switch target.Kind() {
	case reflect.Interface:
		if target.Implements(nodeType) || target == nodeType {
			if lit, ok := Box(value); ok && reflect.TypeOf(lit).AssignableTo(target) {
				return reflect.ValueOf(lit), nil
			}
		}

		return reflect.Value{}, fmt.Errorf("%w: %T is not %s", ErrFieldType, value, target)

	case reflect.Pointer:
		if target.Elem().Kind() == reflect.Int && isInteger(current) {
			return reflect.ValueOf(Ptr(int(toInt64(current)))), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: %T is not %s", ErrFieldType, value, target)

	case reflect.Slice:
		return convertSlice(target, current)

	case reflect.String:
		if current.Kind() == reflect.String {
			return current.Convert(target), nil
		}

	case reflect.Int:
		if name, ok := value.(string); ok {
			if op, found := operatorByName(Kind(name)); found && reflect.TypeOf(op) == target {
				return reflect.ValueOf(op), nil
			}
		}

		if raw, ok := value.(*RawNode); ok {
			if op, found := operatorByName(raw.Kind()); found && reflect.TypeOf(op) == target {
				return reflect.ValueOf(op), nil
			}
		}

		if isInteger(current) {
			return reflect.ValueOf(toInt64(current)).Convert(target), nil
		}

		if current.Kind() == reflect.Bool {
			if current.Bool() {
				return reflect.ValueOf(1).Convert(target), nil
			}

			return reflect.Zero(target), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("%w: %T is not %s", ErrFieldType, value, target)
}

func convertSlice(target reflect.Type, current reflect.Value) (reflect.Value, error) {
	if current.Kind() != reflect.Slice && current.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a list", ErrFieldType, current.Type())
	}

	out := reflect.MakeSlice(target, current.Len(), current.Len())

	for idx := range current.Len() {
		elem := current.Index(idx)
		if elem.Kind() == reflect.Interface {
			if elem.IsNil() {
				continue
			}

			elem = elem.Elem()
		}

		converted, err := convertTo(target.Elem(), elem.Interface(), false)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", idx, err)
		}

		out.Index(idx).Set(converted)
	}

	return out, nil
}

func isInteger(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func toInt64(value reflect.Value) int64 {
	switch value.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(value.Uint()) //nolint:gosec // field values are small flags
	default:
		return value.Int()
	}
}
