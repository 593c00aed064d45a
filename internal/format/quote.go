package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"shroud/internal/ast"
)

func literalText(d ast.LiteralData) string {
	switch d.Kind {
	case ast.LitInt:
		return d.Int.String()
	case ast.LitStr:
		return QuoteStr(d.Bytes)
	case ast.LitBytes:
		return QuoteBytes(d.Bytes)
	case ast.LitBool:
		if d.Bool {
			return "true"
		}
		return "false"
	default:
		return "none"
	}
}

// QuoteStr renders UTF-8 text as a string literal. Invalid UTF-8 is
// replaced by U+FFFD.
func QuoteStr(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if esc, ok := simpleEscape(r); ok {
			sb.WriteString(esc)
			continue
		}
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
			continue
		}
		fmt.Fprintf(&sb, `\u{%x}`, r)
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteBytes renders raw bytes as a b"..." literal; non-printable bytes become \xHH.
func QuoteBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteString(`b"`)
	for _, c := range b {
		if esc, ok := simpleEscape(rune(c)); ok {
			sb.WriteString(esc)
			continue
		}
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, `\x%02x`, c)
	}
	sb.WriteByte('"')
	return sb.String()
}

func simpleEscape(r rune) (string, bool) {
	switch r {
	case '\n':
		return `\n`, true
	case '\t':
		return `\t`, true
	case '\r':
		return `\r`, true
	case 0:
		return `\0`, true
	case '\\':
		return `\\`, true
	case '"':
		return `\"`, true
	}
	return "", false
}
