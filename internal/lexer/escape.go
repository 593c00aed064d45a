package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

var errIncompleteEscape = errors.New("incomplete escape sequence")

// Unquote decodes the text of a StringLit or BytesLit token (quotes and the
// optional b prefix included) into raw bytes. String literals yield UTF-8.
func Unquote(text string) ([]byte, error) {
	bytesLit := false
	if len(text) > 0 && text[0] == 'b' {
		bytesLit = true
		text = text[1:]
	}
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return nil, fmt.Errorf("malformed literal %q", text)
	}
	body := []byte(text[1 : len(text)-1])
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			if bytesLit && body[i] >= utf8.RuneSelf {
				return nil, errors.New("bytes literal may only contain ASCII characters")
			}
			out = append(out, body[i])
			i++
			continue
		}
		decoded, n, err := decodeEscape(body[i:], bytesLit)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)
		i += n
	}
	return out, nil
}

// decodeEscape decodes one escape sequence at the start of seq.
// Returns the produced bytes and the number of consumed input bytes.
func decodeEscape(seq []byte, bytesLit bool) ([]byte, int, error) {
	if len(seq) < 2 || seq[0] != '\\' {
		return nil, 0, errIncompleteEscape
	}
	switch seq[1] {
	case 'n':
		return []byte{'\n'}, 2, nil
	case 't':
		return []byte{'\t'}, 2, nil
	case 'r':
		return []byte{'\r'}, 2, nil
	case '0':
		return []byte{0}, 2, nil
	case '\\':
		return []byte{'\\'}, 2, nil
	case '"':
		return []byte{'"'}, 2, nil
	case 'x':
		if len(seq) < 4 || !isHex(seq[2]) || !isHex(seq[3]) {
			return nil, 0, errors.New(`\x escape needs exactly two hex digits`)
		}
		v, _ := strconv.ParseUint(string(seq[2:4]), 16, 8) //nolint:errcheck // digits checked above
		if bytesLit {
			return []byte{byte(v)}, 4, nil
		}
		return utf8.AppendRune(nil, rune(v)), 4, nil
	case 'u':
		if bytesLit {
			return nil, 0, errors.New(`\u escape is not allowed in bytes literal`)
		}
		if len(seq) < 3 || seq[2] != '{' {
			return nil, 0, errors.New(`\u escape must look like \u{1F600}`)
		}
		end := 3
		for end < len(seq) && seq[end] != '}' {
			if !isHex(seq[end]) || end-3 >= 6 {
				return nil, 0, errors.New(`\u escape must look like \u{1F600}`)
			}
			end++
		}
		if end >= len(seq) || end == 3 {
			return nil, 0, errIncompleteEscape
		}
		v, _ := strconv.ParseUint(string(seq[3:end]), 16, 32) //nolint:errcheck // digits checked above
		if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
			return nil, 0, fmt.Errorf("invalid code point U+%X", v)
		}
		return utf8.AppendRune(nil, rune(v)), end + 1, nil
	default:
		return nil, 0, fmt.Errorf("unknown escape sequence \\%c", seq[1])
	}
}
