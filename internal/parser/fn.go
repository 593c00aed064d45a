package parser

import (
	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/token"
)

// parseFn: fn name(p [: T], ...) [-> T] { body }
func (p *Parser) parseFn() (*ast.Stmt, bool) {
	fnTok := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}

	var params []ast.Param
	seen := make(map[string]bool)
	dup := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		paramTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		param := ast.Param{Name: paramTok.Text, Span: paramTok.Span}
		if p.at(token.Colon) {
			p.advance()
			annotTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected type annotation after ':'")
			if !ok {
				return nil, false
			}
			param.Annot = annotTok.Text
			param.Span = param.Span.Cover(annotTok.Span)
		}
		if seen[param.Name] {
			p.report(diag.SynDuplicateParam, diag.SevError, paramTok.Span, "duplicate parameter '"+param.Name+"'")
			dup = true
		}
		seen[param.Name] = true
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return nil, false
	}

	returns := ""
	if p.at(token.Arrow) {
		p.advance()
		retTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected return type after '->'")
		if !ok {
			return nil, false
		}
		returns = retTok.Text
	}

	saved := p.ctx
	p.ctx = blockCtx{inFunc: true, depth: saved.depth}
	body, bodySpan, ok := p.parseBlock()
	p.ctx = saved
	if !ok || dup {
		return nil, false
	}

	span := fnTok.Span.Cover(bodySpan)
	fn := &ast.Function{
		Name:    nameTok.Text,
		Params:  params,
		Returns: returns,
		Body:    body,
		Span:    span,
	}
	return &ast.Stmt{Kind: ast.StmtFunc, Span: span, Data: ast.FuncData{Func: fn}}, true
}
