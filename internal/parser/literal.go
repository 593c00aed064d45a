package parser

import (
	"math/big"
	"strings"

	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/lexer"
	"shroud/internal/token"
)

// parseIntLiteral понимает 123, 1_000, 0x.., 0o.., 0b... Ведущий ноль не означает восьмеричную запись.
func parseIntLiteral(text string) (*big.Int, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	if len(clean) > 2 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			clean = clean[2:]
		}
	}
	return new(big.Int).SetString(clean, base)
}

func (p *Parser) stringLiteral(tok token.Token) (*ast.Expr, bool) {
	raw, err := lexer.Unquote(tok.Text)
	if err != nil {
		p.report(diag.LexBadEscape, diag.SevError, tok.Span, err.Error())
		return nil, false
	}
	kind := ast.LitStr
	if tok.Kind == token.BytesLit {
		kind = ast.LitBytes
	}
	return &ast.Expr{Kind: ast.ExprLiteral, Span: tok.Span, Data: ast.LiteralData{Kind: kind, Bytes: raw}}, true
}
