package parser

import (
	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/source"
	"shroud/internal/token"
)

// parseImport: import a.b.c [as x];
func (p *Parser) parseImport() (*ast.Stmt, bool) {
	importTok := p.advance()
	path, _, ok := p.parseModulePath()
	if !ok {
		return nil, false
	}
	alias := ""
	if p.at(token.KwAs) {
		p.advance()
		aliasTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected alias after 'as'")
		if !ok {
			return nil, false
		}
		alias = aliasTok.Text
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import")
	if !ok {
		return nil, false
	}
	return &ast.Stmt{
		Kind: ast.StmtImport,
		Span: importTok.Span.Cover(semi.Span),
		Data: ast.ImportData{Path: path, Alias: alias},
	}, true
}

// parseFromImport: from a.b import x [as y], z;
func (p *Parser) parseFromImport() (*ast.Stmt, bool) {
	fromTok := p.advance()
	module, _, ok := p.parseModulePath()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KwImport, diag.SynUnexpectedToken, "expected 'import' after module path"); !ok {
		return nil, false
	}

	var names []ast.ImportName
	for {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected imported name")
		if !ok {
			return nil, false
		}
		entry := ast.ImportName{Name: nameTok.Text, Span: nameTok.Span}
		if p.at(token.KwAs) {
			p.advance()
			aliasTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected alias after 'as'")
			if !ok {
				return nil, false
			}
			entry.Alias = aliasTok.Text
			entry.Span = entry.Span.Cover(aliasTok.Span)
		}
		names = append(names, entry)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import")
	if !ok {
		return nil, false
	}
	return &ast.Stmt{
		Kind: ast.StmtFromImport,
		Span: fromTok.Span.Cover(semi.Span),
		Data: ast.FromImportData{Module: module, Names: names},
	}, true
}

// parseModulePath: ident ('.' ident)*
func (p *Parser) parseModulePath() ([]string, source.Span, bool) {
	first, ok := p.expect(token.Ident, diag.SynBadModulePath, "expected module name")
	if !ok {
		return nil, first.Span, false
	}
	path := []string{first.Text}
	span := first.Span
	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expect(token.Ident, diag.SynBadModulePath, "expected module name after '.'")
		if !ok {
			return nil, span, false
		}
		path = append(path, seg.Text)
		span = span.Cover(seg.Span)
	}
	return path, span, true
}
