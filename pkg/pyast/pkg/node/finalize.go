package node

import "reflect"

// Finalize normalizes a tree rooted at value, starting at line 1, column 0.
// See FinalizeAt.
func Finalize(value any) any {
	return FinalizeAt(value, 1, 0)
}

// FinalizeAt normalizes value and returns the result:
//
//   - raw literals are boxed into Constant, named Go functions into Name;
//   - slices finalize element-wise and keep their slice type;
//   - nodes inherit the nearest enclosing position when they have none, get
//     their default fields materialized and have every node-valued field
//     finalized in turn. Constant.Value is never descended into.
//
// Finalizing an already finalized tree is a no-op.
func FinalizeAt(value any, line, col int) any {
	return finalizeValue(value, &Position{Lineno: line, ColOffset: col})
}

// FinalizeNode is Finalize for a node known to stay a node.
func FinalizeNode(n Node) Node {
	if n == nil {
		return nil
	}

	finalized, ok := Finalize(n).(Node)
	if !ok {
		return n
	}

	return finalized
}

func finalizeValue(value any, inherited *Position) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case Node:
		if isNilNode(typed) {
			return typed
		}

		finalizeNode(typed, inherited)

		return typed
	}

	if isLiteral(value) {
		boxed := NewConstant(value)
		boxed.SetPos(copyPos(inherited))

		return boxed
	}

	if boxed, ok := Box(value); ok {
		boxed.SetPos(copyPos(inherited))

		return boxed
	}

	list := reflect.ValueOf(value)
	if list.Kind() != reflect.Slice {
		return value
	}

	out := reflect.MakeSlice(list.Type(), list.Len(), list.Len())

	for idx := range list.Len() {
		elem := list.Index(idx)
		finalized := finalizeValue(elem.Interface(), inherited)

		if finalized == nil {
			continue
		}

		converted := reflect.ValueOf(finalized)
		if !converted.Type().AssignableTo(list.Type().Elem()) {
			out.Index(idx).Set(elem)

			continue
		}

		out.Index(idx).Set(converted)
	}

	return out.Interface()
}

func finalizeNode(n Node, inherited *Position) {
	switch FamilyOf(n) {
	case FamilyOperator, FamilyContext:
		return
	case FamilyRoot:
		// Roots carry no position; children start from the caller's.
	default:
		if pos := n.Pos(); pos != nil {
			inherited = pos
		} else {
			n.SetPos(copyPos(inherited))
		}
	}

	if raw, ok := n.(*RawNode); ok {
		finalizeRaw(raw, inherited)

		return
	}

	applyDefaults(n)

	target := structValue(n)

	for _, info := range fieldsOf(reflect.TypeOf(n)) {
		if info.Bypass {
			continue
		}

		field := target.Field(info.index)

		switch field.Kind() {
		case reflect.Interface, reflect.Pointer:
			if field.IsNil() {
				continue
			}

			if child, ok := field.Interface().(Node); ok {
				finalizeNode(child, inherited)
			}
		case reflect.Slice:
			finalizeSlice(field, inherited)
		}
	}
}

func finalizeSlice(list reflect.Value, inherited *Position) {
	for idx := range list.Len() {
		elem := list.Index(idx)
		if elem.Kind() == reflect.Interface || elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				continue
			}
		}

		if child, ok := elem.Interface().(Node); ok {
			finalizeNode(child, inherited)
		}
	}
}

// finalizeRaw descends into node-valued fields only; raw scalars are field
// payloads such as identifiers, not literals.
func finalizeRaw(raw *RawNode, inherited *Position) {
	for name, value := range raw.Fields {
		switch typed := value.(type) {
		case Node:
			if !isNilNode(typed) {
				finalizeNode(typed, inherited)
			}
		case []any:
			for _, elem := range typed {
				if child, ok := elem.(Node); ok && !isNilNode(child) {
					finalizeNode(child, inherited)
				}
			}

			raw.Fields[name] = typed
		}
	}
}

func copyPos(pos *Position) *Position {
	if pos == nil {
		return nil
	}

	copied := *pos

	return &copied
}
