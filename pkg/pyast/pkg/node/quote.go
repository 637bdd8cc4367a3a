package node

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// infinity is the shortest literal that overflows to float inf.
const infinity = "1e309"

type escapeMode struct {
	keepNewlines bool
	doubleBraces bool
}

// quoteString renders s as a single-line string literal.
func quoteString(s string, quote byte) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2) //nolint:mnd // quotes
	sb.WriteByte(quote)
	writeEscaped(&sb, s, quote, escapeMode{})
	sb.WriteByte(quote)

	return sb.String()
}

// quoteDocstring renders s triple-quoted with embedded newlines kept as is.
func quoteDocstring(s string, quote byte) string {
	delim := strings.Repeat(string(quote), 3) //nolint:mnd // triple quote

	var sb strings.Builder

	sb.WriteString(delim)
	writeEscaped(&sb, s, quote, escapeMode{keepNewlines: true})
	sb.WriteString(delim)

	return sb.String()
}

func writeEscaped(sb *strings.Builder, s string, quote byte, mode escapeMode) {
	for idx, width := 0, 0; idx < len(s); idx += width {
		var r rune

		r, width = utf8.DecodeRuneInString(s[idx:])
		if r == utf8.RuneError && width == 1 {
			fmt.Fprintf(sb, `\x%02x`, s[idx])

			continue
		}

		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r == '\n' && mode.keepNewlines:
			sb.WriteByte('\n')
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case (r == '{' || r == '}') && mode.doubleBraces:
			sb.WriteRune(r)
			sb.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(sb, `\x%02x`, r)
		case r < utf8.RuneSelf || unicode.IsPrint(r):
			sb.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(sb, `\u%04x`, r)
		default:
			fmt.Fprintf(sb, `\U%08x`, r)
		}
	}
}

// quoteBytes renders a bytes literal.
func quoteBytes(data []byte, quote byte) string {
	var sb strings.Builder

	sb.WriteByte('b')
	sb.WriteByte(quote)

	for _, char := range data {
		switch {
		case char == '\\':
			sb.WriteString(`\\`)
		case char == quote:
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case char == '\n':
			sb.WriteString(`\n`)
		case char == '\r':
			sb.WriteString(`\r`)
		case char == '\t':
			sb.WriteString(`\t`)
		case char < 0x20 || char >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, char)
		default:
			sb.WriteByte(char)
		}
	}

	sb.WriteByte(quote)

	return sb.String()
}

// formatFloat mirrors Python's float repr: shortest round-tripping digits,
// positional notation for decimal exponents in [-4, 16), scientific otherwise.
func formatFloat(value float64) string {
	switch {
	case math.IsInf(value, 1):
		return infinity
	case math.IsInf(value, -1):
		return "-" + infinity
	case math.IsNaN(value):
		return "(" + infinity + " - " + infinity + ")"
	}

	scientific := strconv.FormatFloat(value, 'e', -1, 64)

	_, exponentText, _ := strings.Cut(scientific, "e")

	exponent, err := strconv.Atoi(exponentText)
	if err != nil || exponent < -4 || exponent >= 16 {
		return scientific
	}

	positional := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsRune(positional, '.') {
		positional += ".0"
	}

	return positional
}

// formatImaginary renders the imaginary literal of a complex value.
func formatImaginary(value complex128) string {
	imagText := strings.TrimSuffix(formatFloat(imag(value)), ".0")

	if real(value) == 0 && !math.Signbit(real(value)) {
		return imagText + "j"
	}

	return "(" + strings.TrimSuffix(formatFloat(real(value)), ".0") + " + " + imagText + "j)"
}

// literalRepr renders a Constant value.
func literalRepr(value any, quote byte) (string, error) {
	switch typed := normalizeLiteral(value).(type) {
	case NoneType:
		return "None", nil
	case EllipsisType:
		return "...", nil
	case bool:
		if typed {
			return "True", nil
		}

		return "False", nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case *big.Int:
		if typed == nil {
			return "", fmt.Errorf("%w: nil integer", ErrUnrenderable)
		}

		return typed.String(), nil
	case float64:
		return formatFloat(typed), nil
	case complex128:
		return formatImaginary(typed), nil
	case string:
		return quoteString(typed, quote), nil
	case []byte:
		return quoteBytes(typed, quote), nil
	default:
		return "", fmt.Errorf("%w: literal of type %T", ErrUnrenderable, value)
	}
}

// isNegativeLiteral reports whether the rendered literal starts with a minus
// sign and so binds like a unary operator.
func isNegativeLiteral(value any) bool {
	switch typed := normalizeLiteral(value).(type) {
	case int64:
		return typed < 0
	case *big.Int:
		return typed != nil && typed.Sign() < 0
	case float64:
		return math.Signbit(typed) && !math.IsNaN(typed)
	case complex128:
		return real(typed) == 0 && !math.Signbit(real(typed)) && math.Signbit(imag(typed))
	default:
		return false
	}
}

func alternateQuote(quote byte) byte {
	if quote == '"' {
		return '\''
	}

	return '"'
}
