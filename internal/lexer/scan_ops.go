package lexer

import (
	"shroud/internal/diag"
	"shroud/internal/token"
)

// scanOperatorOrPunct: жадный матчинг операторов: сначала трёхсимвольные, затем двух, затем одиночные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	kind := lx.matchOperator()
	sp := lx.cursor.SpanFrom(start)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+lx.text(sp))
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) matchOperator() token.Kind {
	switch {
	case lx.try2('<', '<'):
		if lx.cursor.Eat('=') {
			return token.ShlAssign
		}
		return token.Shl
	case lx.try2('>', '>'):
		if lx.cursor.Eat('=') {
			return token.ShrAssign
		}
		return token.Shr
	case lx.try2('&', '&'):
		return token.AndAnd
	case lx.try2('|', '|'):
		return token.OrOr
	case lx.try2('=', '='):
		return token.EqEq
	case lx.try2('!', '='):
		return token.BangEq
	case lx.try2('<', '='):
		return token.LtEq
	case lx.try2('>', '='):
		return token.GtEq
	case lx.try2('-', '>'):
		return token.Arrow
	case lx.try2('+', '='):
		return token.PlusAssign
	case lx.try2('-', '='):
		return token.MinusAssign
	case lx.try2('*', '='):
		return token.StarAssign
	case lx.try2('/', '='):
		return token.SlashAssign
	case lx.try2('%', '='):
		return token.PercentAssign
	case lx.try2('&', '='):
		return token.AmpAssign
	case lx.try2('|', '='):
		return token.PipeAssign
	case lx.try2('^', '='):
		return token.CaretAssign
	}

	switch ch := lx.cursor.Peek(); ch {
	case '+', '-', '*', '/', '%', '&', '|', '^', '~', '!', '<', '>', '=',
		'(', ')', '{', '}', '[', ']', ',', '.', ':', ';':
		lx.cursor.Bump()
		return single[ch]
	}
	lx.bumpRune()
	return token.Invalid
}

var single = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'~': token.Tilde,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	'=': token.Assign,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	',': token.Comma,
	'.': token.Dot,
	':': token.Colon,
	';': token.Semicolon,
}
