package pyast //nolint:testpackage // Tests need access to the literal decoders.

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want any
	}{
		{"0", int64(0)},
		{"42", int64(42)},
		{"1_000_000", int64(1000000)},
		{"0xFF", int64(255)},
		{"0o17", int64(15)},
		{"0b1010", int64(10)},
		{"1.5", 1.5},
		{"1e3", 1000.0},
		{"1E-2", 0.01},
		{".5", 0.5},
		{"3j", complex(0, 3)},
		{"1.5J", complex(0, 1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			got, err := parseNumber(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumberWide(t *testing.T) {
	t.Parallel()

	got, err := parseNumber("123456789012345678901234567890")
	require.NoError(t, err)

	wide, ok := got.(*big.Int)
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", wide.String())

	inf, err := parseNumber("1e309")
	require.NoError(t, err)
	assert.True(t, math.IsInf(inf.(float64), 1)) //nolint:forcetypeassert // float literal

	_, err = parseNumber("0xZZ")
	require.ErrorIs(t, err, ErrBadNumber)
}

func TestSplitLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		flags  prefix
		body   string
		offset int
	}{
		{`"abc"`, prefix{}, "abc", 1},
		{`'a"b'`, prefix{}, `a"b`, 1},
		{`"""doc"""`, prefix{}, "doc", 3},
		{`rb'\d'`, prefix{raw: true, bytes: true}, `\d`, 3},
		{`F"{x}"`, prefix{format: true}, "{x}", 2},
		{`u''`, prefix{unicode: true}, "", 2},
		{`''''''`, prefix{}, "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			flags, body, offset, err := splitLiteral(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.flags, flags)
			assert.Equal(t, tt.body, body)
			assert.Equal(t, tt.offset, offset)
		})
	}

	_, _, _, err := splitLiteral(`"open`)
	require.ErrorIs(t, err, ErrBadString)
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		flags prefix
		want  any
	}{
		{"plain", "abc", prefix{}, "abc"},
		{"simple escapes", `a\tb\n\\\'`, prefix{}, "a\tb\n\\'"},
		{"octal", `\101\0`, prefix{}, "A\x00"},
		{"hex", `\x41`, prefix{}, "A"},
		{"short unicode", `\u00e9`, prefix{}, "é"},
		{"long unicode", `\U0001F600`, prefix{}, "\U0001F600"},
		{"named", `\N{greek small letter alpha}`, prefix{}, "α"},
		{"unknown escape kept", `\d`, prefix{}, `\d`},
		{"line continuation", "a\\\nb", prefix{}, "ab"},
		{"raw", `\n`, prefix{raw: true}, `\n`},
		{"bytes", `\xff\n`, prefix{bytes: true}, []byte{0xff, '\n'}},
		{"bytes keep unicode escape", `\u0041`, prefix{bytes: true}, []byte(`\u0041`)},
		{"format braces", "{{x}}", prefix{format: true}, "{x}"},
		{"plain braces", "{{x}}", prefix{}, "{{x}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := decodeBody(tt.body, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBodyErrors(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`\x4`, `\uZZZZ`, `\U00110000`, `\N{NO SUCH CHARACTER NAME}`, `\Nx`} {
		_, err := decodeBody(body, prefix{})
		require.ErrorIs(t, err, ErrBadEscape, body)
	}
}

func TestRuneByName(t *testing.T) {
	t.Parallel()

	code, ok := runeByName("BULLET")
	require.True(t, ok)
	assert.Equal(t, '•', code)

	code, ok = runeByName("latin capital letter a")
	require.True(t, ok)
	assert.Equal(t, 'A', code)

	_, ok = runeByName("NOT A CHARACTER")
	assert.False(t, ok)
}
