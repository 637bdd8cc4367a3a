package safeconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustConverts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4096, Must[int](uint(4096)))
	assert.Equal(t, uint(42), Must[uint](42))
	assert.Equal(t, uint32(7), Must[uint32](int64(7)))
	assert.Equal(t, int64(-3), Must[int64](int8(-3)))
	assert.Equal(t, math.MaxInt, Must[int](uint(math.MaxInt)))
}

func TestMustPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		conv func()
	}{
		{"negative to unsigned", func() { Must[uint](-1) }},
		{"unsigned overflow", func() { Must[int](uint(math.MaxInt) + 1) }},
		{"narrowing", func() { Must[uint8](300) }},
		{"signed narrowing", func() { Must[int8](int64(-129)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Panics(t, tt.conv)
		})
	}

	assert.PanicsWithValue(t, "safeconv: -1 does not fit uint", func() { Must[uint](-1) })
}

func TestOneBased(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, OneBased(uint32(0)))
	assert.Equal(t, 10, OneBased(uint(9)))
}
