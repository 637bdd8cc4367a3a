package node

import (
	"errors"
	"reflect"
)

// Equal reports whether two trees are structurally equal: same kinds and
// equal field values, with defaults resolved and positions ignored.
func Equal(left, right Node) bool {
	leftNil, rightNil := isNilNode(left), isNilNode(right)
	if leftNil || rightNil {
		return leftNil == rightNil
	}

	if left.Kind() != right.Kind() {
		return false
	}

	switch FamilyOf(left) {
	case FamilyOperator, FamilyContext:
		return true
	}

	leftRaw, leftIsRaw := left.(*RawNode)
	rightRaw, rightIsRaw := right.(*RawNode)

	if leftIsRaw || rightIsRaw {
		return leftIsRaw && rightIsRaw && equalRaw(leftRaw, rightRaw)
	}

	for _, field := range Fields(left) {
		leftValue, leftErr := Get(left, field)
		rightValue, rightErr := Get(right, field)

		if leftErr != nil || rightErr != nil {
			if !errors.Is(leftErr, ErrMissingField) || !errors.Is(rightErr, ErrMissingField) {
				return false
			}

			continue
		}

		if !equalValues(leftValue, rightValue) {
			return false
		}
	}

	return true
}

func equalRaw(left, right *RawNode) bool {
	if len(left.Fields) != len(right.Fields) {
		return false
	}

	for name, value := range left.Fields {
		other, ok := right.Fields[name]
		if !ok || !equalValues(value, other) {
			return false
		}
	}

	return true
}

func equalValues(left, right any) bool {
	leftNode, leftIsNode := left.(Node)
	rightNode, rightIsNode := right.(Node)

	if leftIsNode || rightIsNode {
		if !leftIsNode {
			return left == nil && isNilNode(rightNode)
		}

		if !rightIsNode {
			return right == nil && isNilNode(leftNode)
		}

		return Equal(leftNode, rightNode)
	}

	if leftPtr, ok := left.(*int); ok {
		rightPtr, rightOK := right.(*int)

		return rightOK && (leftPtr == nil) == (rightPtr == nil) && (leftPtr == nil || *leftPtr == *rightPtr)
	}

	leftList, rightList := reflect.ValueOf(left), reflect.ValueOf(right)
	if leftList.Kind() == reflect.Slice && rightList.Kind() == reflect.Slice &&
		leftList.Type().Elem().Kind() != reflect.Uint8 {
		if leftList.Len() != rightList.Len() {
			return false
		}

		for idx := range leftList.Len() {
			if !equalValues(leftList.Index(idx).Interface(), rightList.Index(idx).Interface()) {
				return false
			}
		}

		return true
	}

	return literalIdentical(left, right)
}
