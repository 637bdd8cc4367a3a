package pyast

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"golang.org/x/text/unicode/runenames"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
	"github.com/Sumatoshi-tech/pyforge/pkg/safeconv"
)

// Literal decoding errors.
var (
	ErrBadNumber  = errors.New("malformed number")
	ErrBadString  = errors.New("malformed string literal")
	ErrBadEscape  = errors.New("malformed escape sequence")
	ErrMixedBytes = errors.New("cannot mix bytes and non-bytes literals")
)

// parseNumber decodes a Python integer, float or imaginary literal.
func parseNumber(text string) (any, error) {
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)

	if strings.HasSuffix(lower, "j") {
		imag, err := parseFloat(lower[:len(lower)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, text)
		}

		return complex(0, imag), nil
	}

	base, digits := 10, lower

	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, lower[2:]
	case strings.ContainsAny(lower, ".e"):
		value, err := parseFloat(lower)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, text)
		}

		return value, nil
	}

	if value, err := strconv.ParseInt(digits, base, 64); err == nil {
		return value, nil
	}

	wide, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadNumber, text)
	}

	return wide, nil
}

// parseFloat accepts out-of-range literals as infinities, the way Python
// reads 1e309.
func parseFloat(text string) (float64, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}

	return value, nil
}

// prefix holds the flags of a string literal prefix.
type prefix struct {
	raw     bool
	bytes   bool
	format  bool
	unicode bool
}

// splitLiteral separates prefix, quote and body of a complete literal token
// and reports the byte offset of the body.
func splitLiteral(text string) (prefix, string, int, error) {
	var flags prefix

	idx := 0

loop:
	for ; idx < len(text); idx++ {
		switch text[idx] {
		case 'r', 'R':
			flags.raw = true
		case 'b', 'B':
			flags.bytes = true
		case 'f', 'F':
			flags.format = true
		case 'u', 'U':
			flags.unicode = true
		default:
			break loop
		}
	}

	rest := text[idx:]

	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(rest) >= 2*len(quote) && strings.HasPrefix(rest, quote) && strings.HasSuffix(rest, quote) {
			return flags, rest[len(quote) : len(rest)-len(quote)], idx + len(quote), nil
		}
	}

	return flags, "", 0, fmt.Errorf("%w: %q", ErrBadString, text)
}

// decodeBody resolves escapes in a literal body. Bytes bodies return a
// []byte, text bodies a string. Format bodies also collapse doubled braces.
func decodeBody(body string, flags prefix) (any, error) {
	var out []byte

	for idx := 0; idx < len(body); idx++ {
		char := body[idx]

		if flags.format && (char == '{' || char == '}') && idx+1 < len(body) && body[idx+1] == char {
			out = append(out, char)
			idx++

			continue
		}

		if char != '\\' || flags.raw || idx+1 == len(body) {
			out = append(out, char)

			continue
		}

		decoded, consumed, err := decodeEscape(body[idx+1:], flags.bytes)
		if err != nil {
			return nil, err
		}

		out = append(out, decoded...)
		idx += consumed
	}

	if flags.bytes {
		return out, nil
	}

	return string(out), nil
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '\'': '\'', '"': '"',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

// decodeEscape decodes the escape following a backslash and reports how many
// bytes it used. Unknown escapes keep their backslash.
func decodeEscape(rest string, bytesMode bool) ([]byte, int, error) {
	char := rest[0]

	if replacement, ok := simpleEscapes[char]; ok {
		return []byte{replacement}, 1, nil
	}

	switch {
	case char == '\n':
		return nil, 1, nil
	case char == '\r':
		if len(rest) > 1 && rest[1] == '\n' {
			return nil, 2, nil
		}

		return nil, 1, nil
	case char >= '0' && char <= '7':
		end := 1
		for end < len(rest) && end < 3 && rest[end] >= '0' && rest[end] <= '7' {
			end++
		}

		value, _ := strconv.ParseUint(rest[:end], 8, 16)

		return encodeCode(rune(value), bytesMode), end, nil
	case char == 'x':
		return hexEscape(rest, 2, bytesMode)
	case char == 'u' && !bytesMode:
		return hexEscape(rest, 4, false)
	case char == 'U' && !bytesMode:
		return hexEscape(rest, 8, false)
	case char == 'N' && !bytesMode:
		return namedEscape(rest)
	default:
		return []byte{'\\', char}, 1, nil
	}
}

func hexEscape(rest string, width int, bytesMode bool) ([]byte, int, error) {
	if len(rest) < width+1 {
		return nil, 0, fmt.Errorf("%w: truncated \\%c", ErrBadEscape, rest[0])
	}

	value, err := strconv.ParseUint(rest[1:width+1], 16, 32)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: \\%s", ErrBadEscape, rest[:width+1])
	}

	if value > unicode.MaxRune {
		return nil, 0, fmt.Errorf("%w: \\%s is out of range", ErrBadEscape, rest[:width+1])
	}

	return encodeCode(rune(value), bytesMode), width + 1, nil
}

// encodeCode stores a code point: as a raw byte in bytes literals, as UTF-8
// otherwise.
func encodeCode(code rune, bytesMode bool) []byte {
	if bytesMode {
		return []byte{byte(code & 0xff)} //nolint:gosec // masked to one byte
	}

	return utf8.AppendRune(nil, code)
}

func namedEscape(rest string) ([]byte, int, error) {
	end := strings.IndexByte(rest, '}')
	if len(rest) < 2 || rest[1] != '{' || end < 0 {
		return nil, 0, fmt.Errorf("%w: \\N needs {name}", ErrBadEscape)
	}

	name := rest[2:end]

	code, ok := runeByName(name)
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown character name %q", ErrBadEscape, name)
	}

	return utf8.AppendRune(nil, code), end + 1, nil
}

var (
	runeNamesOnce sync.Once
	runeNames     map[string]rune
)

// runeByName looks up a character by its Unicode name, ignoring case.
func runeByName(name string) (rune, bool) {
	runeNamesOnce.Do(func() {
		runeNames = make(map[string]rune)

		for code := rune(0); code <= unicode.MaxRune; code++ {
			if !unicode.IsPrint(code) && !unicode.IsSpace(code) && !unicode.Is(unicode.Cf, code) {
				continue
			}

			if entry := runenames.Name(code); entry != "" && !strings.HasPrefix(entry, "<") {
				runeNames[entry] = code
			}
		}
	})

	code, ok := runeNames[strings.ToUpper(name)]

	return code, ok
}

// stringLiteral converts string and concatenated_string nodes. Adjacent parts are
// merged the way the Python compiler merges them: one Constant when no part
// is an f-string, one JoinedStr otherwise.
func (b *builder) stringLiteral(n sitter.Node) (any, error) {
	parts := []sitter.Node{n}
	if n.Type() == "concatenated_string" {
		parts = namedChildren(n)
	}

	var (
		values    []any
		formatted bool
		bytesMode = -1
	)

	for _, part := range parts {
		pieces, flags, err := b.stringPart(part)
		if err != nil {
			return nil, err
		}

		isBytes := 0
		if flags.bytes {
			isBytes = 1
		}

		if bytesMode >= 0 && bytesMode != isBytes {
			return nil, b.invalid(part, "%v", ErrMixedBytes)
		}

		bytesMode = isBytes
		formatted = formatted || flags.format
		values = append(values, pieces...)
	}

	if bytesMode == 1 {
		var joined []byte

		for _, value := range values {
			chunk, _ := value.([]byte)
			joined = append(joined, chunk...)
		}

		return b.constant(n, joined), nil
	}

	merged := mergeText(b, n, values)

	if !formatted {
		if len(merged) == 0 {
			return b.constant(n, ""), nil
		}

		return merged[0], nil
	}

	return b.raw(n, "JoinedStr", "values", merged), nil
}

// mergeText joins adjacent text pieces into Constants and drops empty text.
func mergeText(b *builder, n sitter.Node, values []any) []any {
	merged := []any{}

	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			merged = append(merged, b.constant(n, text.String()))
			text.Reset()
		}
	}

	for _, value := range values {
		if chunk, ok := value.(string); ok {
			text.WriteString(chunk)

			continue
		}

		flush()
		merged = append(merged, value)
	}

	flush()

	return merged
}

// stringPart decodes one string node into text pieces and FormattedValue
// raw nodes.
func (b *builder) stringPart(n sitter.Node) ([]any, prefix, error) {
	text := b.text(n)

	flags, body, offset, err := splitLiteral(text)
	if err != nil {
		return nil, flags, b.invalid(n, "%v", err)
	}

	if !flags.format {
		value, err := decodeBody(body, flags)
		if err != nil {
			return nil, flags, b.invalid(n, "%v", err)
		}

		return []any{value}, flags, nil
	}

	var pieces []any

	cursor := n.StartByte() + safeconv.Must[uint](offset)
	end := cursor + safeconv.Must[uint](len(body))

	literal := func(upTo uint) error {
		if upTo <= cursor {
			return nil
		}

		decoded, err := decodeBody(string(b.src[cursor:upTo]), flags)
		if err != nil {
			return b.invalid(n, "%v", err)
		}

		pieces = append(pieces, decoded)

		return nil
	}

	for _, child := range namedChildren(n) {
		if child.Type() != "interpolation" {
			continue
		}

		if err := literal(child.StartByte()); err != nil {
			return nil, flags, err
		}

		value, debug, err := b.interpolation(child)
		if err != nil {
			return nil, flags, err
		}

		if debug != "" {
			pieces = append(pieces, debug)
		}

		pieces = append(pieces, value)
		cursor = child.EndByte()
	}

	if err := literal(end); err != nil {
		return nil, flags, err
	}

	return pieces, flags, nil
}

// interpolation converts a replacement field. A self-documenting field
// ("{x=}") also returns its literal source text.
func (b *builder) interpolation(n sitter.Node) (*node.RawNode, string, error) {
	exprNode, ok := field(n, "expression")
	if !ok {
		return nil, "", b.invalid(n, "empty replacement field")
	}

	value, err := b.interpolated(n, exprNode)
	if err != nil {
		return nil, "", err
	}

	out := b.raw(n, "FormattedValue", "value", value, "conversion", node.ConversionNone)

	debug := b.debugText(n)

	spec, hasSpec := field(n, "format_specifier")

	if conversion, ok := field(n, "type_conversion"); ok {
		flag := strings.TrimPrefix(b.text(conversion), "!")
		if len(flag) != 1 || !strings.Contains("sra", flag) {
			return nil, "", b.invalid(conversion, "unknown conversion %q", flag)
		}

		out.Fields["conversion"] = int(flag[0])
	} else if debug != "" && !hasSpec {
		out.Fields["conversion"] = node.ConversionRepr
	}

	if hasSpec {
		formatSpec, err := b.formatSpec(spec)
		if err != nil {
			return nil, "", err
		}

		out.Fields["format_spec"] = formatSpec
	}

	return out, debug, nil
}

// debugText returns the source of a self-documenting field up to the
// conversion, format spec or closing brace, "=" and spacing included.
func (b *builder) debugText(n sitter.Node) string {
	parts := children(n)

	for idx, child := range parts {
		if child.IsNamed() || child.Type() != "=" || idx+1 >= len(parts) {
			continue
		}

		return string(b.src[n.StartByte()+1 : parts[idx+1].StartByte()])
	}

	return ""
}

// interpolated converts the expression of a replacement field, where a bare
// comma list is a tuple.
func (b *builder) interpolated(n, exprNode sitter.Node) (any, error) {
	if exprNode.Type() == "expression_list" || exprNode.Type() == "pattern_list" {
		return b.collection(exprNode, "Tuple")
	}

	return b.expr(exprNode)
}

// formatSpec reads the literal text and nested fields after the colon.
func (b *builder) formatSpec(n sitter.Node) (*node.RawNode, error) {
	var pieces []any

	cursor := n.StartByte()
	if strings.HasPrefix(b.text(n), ":") {
		cursor++
	}

	for _, child := range namedChildren(n) {
		if child.Type() != "format_expression" && child.Type() != "interpolation" {
			continue
		}

		if child.StartByte() > cursor {
			pieces = append(pieces, string(b.src[cursor:child.StartByte()]))
		}

		value, debug, err := b.interpolation(child)
		if err != nil {
			return nil, err
		}

		if debug != "" {
			pieces = append(pieces, debug)
		}

		pieces = append(pieces, value)
		cursor = child.EndByte()
	}

	if n.EndByte() > cursor {
		pieces = append(pieces, string(b.src[cursor:n.EndByte()]))
	}

	return b.raw(n, "JoinedStr", "values", mergeText(b, n, pieces)), nil
}
