package node

import (
	"fmt"
	"reflect"
	"sort"
)

// Children returns the direct child nodes of n in field order, flattening
// list fields and skipping unset slots. Operators and contexts are field
// values, not children.
func Children(n Node) []Node {
	if isNilNode(n) {
		return nil
	}

	var out []Node

	collect := func(value any) {
		switch typed := value.(type) {
		case Node:
			if isStructural(typed) {
				out = append(out, typed)
			}
		case []any:
			for _, elem := range typed {
				if child, ok := elem.(Node); ok && isStructural(child) {
					out = append(out, child)
				}
			}
		}
	}

	if raw, ok := n.(*RawNode); ok {
		for _, name := range sortedKeys(raw.Fields) {
			collect(raw.Fields[name])
		}

		return out
	}

	target := structValue(n)
	if target.Kind() != reflect.Struct {
		return nil
	}

	for _, info := range fieldsOf(reflect.TypeOf(n)) {
		if info.Bypass {
			continue
		}

		field := target.Field(info.index)
		if field.Kind() == reflect.Slice {
			for idx := range field.Len() {
				collect(field.Index(idx).Interface())
			}

			continue
		}

		collect(field.Interface())
	}

	return out
}

// Inspect walks the tree in depth-first order, calling fn for every node.
// Children of a node are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if isNilNode(n) || !fn(n) {
		return
	}

	for _, child := range Children(n) {
		Inspect(child, fn)
	}
}

// MapChildren replaces every direct child of n with the result of fn. A nil
// result removes a list element and unsets a single-valued field.
func MapChildren(n Node, fn func(Node) (Node, error)) error {
	if isNilNode(n) {
		return nil
	}

	if raw, ok := n.(*RawNode); ok {
		return mapRawChildren(raw, fn)
	}

	target := structValue(n)
	if target.Kind() != reflect.Struct {
		return nil
	}

	for _, info := range fieldsOf(reflect.TypeOf(n)) {
		if info.Bypass {
			continue
		}

		field := target.Field(info.index)

		var err error

		switch field.Kind() {
		case reflect.Slice:
			err = mapSlice(field, fn)
		case reflect.Interface, reflect.Pointer:
			err = mapSingle(field, fn)
		}

		if err != nil {
			return &FieldError{Kind: n.Kind(), Field: info.Name, Err: err}
		}
	}

	return nil
}

func mapSingle(field reflect.Value, fn func(Node) (Node, error)) error {
	if field.IsNil() {
		return nil
	}

	child, ok := field.Interface().(Node)
	if !ok {
		return nil
	}

	replaced, err := fn(child)
	if err != nil {
		return err
	}

	replaced = unwrapSugar(replaced)

	if isNilNode(replaced) {
		field.Set(reflect.Zero(field.Type()))

		return nil
	}

	value := reflect.ValueOf(replaced)
	if !value.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("%w: %s does not fit %s", ErrFieldType, replaced.Kind(), field.Type())
	}

	field.Set(value)

	return nil
}

func mapSlice(field reflect.Value, fn func(Node) (Node, error)) error {
	elemKind := field.Type().Elem().Kind()
	if field.Len() == 0 || (elemKind != reflect.Pointer && elemKind != reflect.Interface) {
		return nil
	}

	kept := reflect.MakeSlice(field.Type(), 0, field.Len())

	for idx := range field.Len() {
		elem := field.Index(idx)

		child, ok := elem.Interface().(Node)
		if !ok || isNilNode(child) {
			// Dict keys use nil for `**` entries; keep the slot.
			kept = reflect.Append(kept, elem)

			continue
		}

		replaced, err := fn(child)
		if err != nil {
			return err
		}

		replaced = unwrapSugar(replaced)

		if isNilNode(replaced) {
			continue
		}

		value := reflect.ValueOf(replaced)
		if !value.Type().AssignableTo(field.Type().Elem()) {
			return fmt.Errorf("%w: %s does not fit %s", ErrFieldType, replaced.Kind(), field.Type().Elem())
		}

		kept = reflect.Append(kept, value)
	}

	field.Set(kept)

	return nil
}

func mapRawChildren(raw *RawNode, fn func(Node) (Node, error)) error {
	for _, name := range sortedKeys(raw.Fields) {
		switch typed := raw.Fields[name].(type) {
		case Node:
			if isNilNode(typed) {
				continue
			}

			replaced, err := fn(typed)
			if err != nil {
				return err
			}

			raw.Fields[name] = replaced
		case []any:
			kept := make([]any, 0, len(typed))

			for _, elem := range typed {
				child, ok := elem.(Node)
				if !ok || isNilNode(child) {
					kept = append(kept, elem)

					continue
				}

				replaced, err := fn(child)
				if err != nil {
					return err
				}

				if !isNilNode(replaced) {
					kept = append(kept, replaced)
				}
			}

			raw.Fields[name] = kept
		}
	}

	return nil
}

// isStructural reports whether n is a set tree node rather than an operator,
// a context or a nil slot.
func isStructural(n Node) bool {
	return !isNilNode(n) && reflect.ValueOf(n).Kind() == reflect.Pointer
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
