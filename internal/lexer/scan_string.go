package lexer

import (
	"shroud/internal/diag"
	"shroud/internal/token"
)

// scanString сканирует "..." или b"...". Escape-последовательности проверяются
// сразу, чтобы ошибка указывала на конкретное место; декодирование делает Unquote.
func (lx *Lexer) scanString(bytesLit bool) token.Token {
	start := lx.cursor.Mark()
	kind := token.StringLit
	if bytesLit {
		kind = token.BytesLit
		lx.cursor.Bump() // 'b'
	}
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case b == '\\':
			escStart := lx.cursor.Mark()
			_, n, err := decodeEscape(lx.file.Content[lx.cursor.Off:], bytesLit)
			if err != nil {
				lx.cursor.Bump()
				if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), err.Error())
				continue
			}
			for range n {
				lx.cursor.Bump()
			}
		case b == '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		case bytesLit && b >= utf8RuneSelf:
			escStart := lx.cursor.Mark()
			lx.bumpRune()
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "bytes literal may only contain ASCII characters")
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
