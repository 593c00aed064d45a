package lexer

import (
	"shroud/internal/diag"
	"shroud/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x...
// Дробных чисел в языке нет; "1.5" лексится как IntLit, Dot, IntLit и отвергается парсером.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digit := isDec
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
			lx.cursor.Bump()
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
			lx.cursor.Bump()
		case 'x', 'X':
			digit = isHex
			lx.cursor.Bump()
		default:
			// просто "0" или десятичное с ведущим нулём
		}
	}

	digits := 0
	for {
		b := lx.cursor.Peek()
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		if !digit(b) {
			break
		}
		lx.cursor.Bump()
		digits++
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	// "0" сам по себе уже цифра
	if digits == 0 && text != "0" {
		lx.errLex(diag.LexBadNumber, sp, "expected digits after base prefix in "+text)
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	if !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid digit in number literal "+lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}
