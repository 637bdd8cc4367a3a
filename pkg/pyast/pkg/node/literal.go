package node

import (
	"bytes"
	"math"
	"math/big"
	"reflect"
	"runtime"
	"strings"
)

// normalizeLiteral maps Go scalar types onto the value set a Constant holds.
func normalizeLiteral(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case int:
		return int64(typed)
	case int8:
		return int64(typed)
	case int16:
		return int64(typed)
	case int32:
		return int64(typed)
	case uint8:
		return int64(typed)
	case uint16:
		return int64(typed)
	case uint32:
		return int64(typed)
	case uint:
		return uintLiteral(uint64(typed))
	case uint64:
		return uintLiteral(typed)
	case float32:
		return float64(typed)
	case complex64:
		return complex128(typed)
	default:
		return value
	}
}

func uintLiteral(value uint64) any {
	if value <= math.MaxInt64 {
		return int64(value)
	}

	return new(big.Int).SetUint64(value)
}

// isLiteral reports whether value can be boxed into a Constant.
func isLiteral(value any) bool {
	switch value.(type) {
	case NoneType, EllipsisType, bool, string, []byte, *big.Int,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, complex64, complex128:
		return true
	default:
		return false
	}
}

// Box converts a raw literal or a named Go function into a node: literals
// become a Constant, named functions a Name referencing the function. It
// reports false for anything else.
func Box(value any) (Node, bool) {
	if isLiteral(value) {
		return NewConstant(value), true
	}

	if name, ok := funcName(value); ok {
		return NewName(name), true
	}

	return nil, false
}

// funcName recovers the bare symbol name of a top-level Go function. Closures
// and methods values have no recoverable name.
func funcName(value any) (string, bool) {
	fn := reflect.ValueOf(value)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return "", false
	}

	info := runtime.FuncForPC(fn.Pointer())
	if info == nil {
		return "", false
	}

	full := info.Name()
	if slash := strings.LastIndexByte(full, '/'); slash >= 0 {
		full = full[slash+1:]
	}

	parts := strings.Split(full, ".")
	if len(parts) != 2 || parts[1] == "" || strings.HasPrefix(parts[1], "func") {
		return "", false
	}

	return parts[1], true
}

// literalIdentical is strict, type-aware equality used by structural comparison.
func literalIdentical(left, right any) bool {
	left, right = normalizeLiteral(left), normalizeLiteral(right)

	switch typed := left.(type) {
	case *big.Int:
		other, ok := right.(*big.Int)

		return ok && typed.Cmp(other) == 0
	case []byte:
		other, ok := right.([]byte)

		return ok && bytes.Equal(typed, other)
	case float64:
		other, ok := right.(float64)

		return ok && (typed == other || (math.IsNaN(typed) && math.IsNaN(other)))
	}

	if reflect.TypeOf(left) != reflect.TypeOf(right) {
		return false
	}

	if left != nil && !reflect.TypeOf(left).Comparable() {
		return reflect.DeepEqual(left, right)
	}

	return left == right
}

// ValueEqual compares values the way Python's == does for literals: numbers
// compare by value across int, float and bool; other values compare strictly.
// Nodes compare structurally.
func ValueEqual(left, right any) bool {
	leftNode, leftIsNode := left.(Node)
	rightNode, rightIsNode := right.(Node)

	if leftIsNode && rightIsNode {
		return Equal(leftNode, rightNode)
	}

	if leftIsNode {
		if constant, ok := leftNode.(*Constant); ok {
			return ValueEqual(constant.Value, right)
		}

		return false
	}

	if rightIsNode {
		return ValueEqual(right, left)
	}

	leftNum, leftOK := numericValue(left)
	rightNum, rightOK := numericValue(right)

	if leftOK && rightOK {
		return leftNum.Cmp(rightNum) == 0
	}

	return literalIdentical(left, right)
}

func numericValue(value any) (*big.Float, bool) {
	switch typed := normalizeLiteral(value).(type) {
	case bool:
		if typed {
			return big.NewFloat(1), true
		}

		return big.NewFloat(0), true
	case int64:
		return new(big.Float).SetInt64(typed), true
	case *big.Int:
		return new(big.Float).SetInt(typed), true
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return nil, false
		}

		return big.NewFloat(typed), true
	default:
		return nil, false
	}
}
