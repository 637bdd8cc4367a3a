// Package safeconv converts between integer types where tree-sitter offsets
// and points meet Go slice indexes and node positions. Conversions panic when
// the value does not fit the target type.
package safeconv

import "fmt"

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Must converts v to To, panicking when the value changes on the way.
// Use only when overflow is logically impossible.
func Must[To, From Integer](v From) To {
	out := To(v)

	if From(out) != v || (v < 0) != (out < 0) {
		panic(fmt.Sprintf("safeconv: %v does not fit %T", v, out))
	}

	return out
}

// OneBased converts a zero-based tree-sitter row or column to a one-based
// position.
func OneBased[From Integer](v From) int {
	return Must[int](v) + 1
}
