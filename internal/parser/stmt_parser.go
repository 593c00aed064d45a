package parser

import (
	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/source"
	"shroud/internal/token"
)

// parseStmt выбирает распознаватель по первому токену.
func (p *Parser) parseStmt() (*ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwImport:
		return p.topLevelOnly(p.parseImport())
	case token.KwFrom:
		return p.topLevelOnly(p.parseFromImport())
	case token.KwFn:
		if p.ctx.inFunc {
			span := p.lx.Peek().Span
			p.parseFn()
			p.report(diag.SynNestedFn, diag.SevError, span, "nested function declarations are not supported")
			return nil, false
		}
		return p.parseFn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak, token.KwContinue, token.KwPass:
		return p.parseSimpleKeyword()
	default:
		return p.parseAssignOrExpr()
	}
}

func (p *Parser) topLevelOnly(stmt *ast.Stmt, ok bool) (*ast.Stmt, bool) {
	if ok && (p.ctx.inFunc || p.ctx.depth > 0) {
		p.report(diag.SynUnexpectedTopOnly, diag.SevError, stmt.Span, "imports are only allowed at top level")
		return nil, false
	}
	return stmt, ok
}

// parseBlock разбирает `{ stmt* }`.
func (p *Parser) parseBlock() ([]*ast.Stmt, source.Span, bool) {
	openTok, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{'")
	if !ok {
		return nil, openTok.Span, false
	}

	p.ctx.depth++
	defer func() { p.ctx.depth-- }()

	stmts := make([]*ast.Stmt, 0, 4)
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		before := p.lx.Peek().Span.Start
		stmt, ok := p.parseStmt()
		if ok {
			stmts = append(stmts, stmt)
			continue
		}
		p.recover(before)
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	if !ok {
		return stmts, openTok.Span, false
	}
	return stmts, openTok.Span.Cover(closeTok.Span), true
}

// parseIf: if expr { ... } [else if ... | else { ... }]
func (p *Parser) parseIf() (*ast.Stmt, bool) {
	ifTok := p.advance()
	test, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	then, span, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	var els []*ast.Stmt
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			nested, ok := p.parseIf()
			if !ok {
				return nil, false
			}
			els = []*ast.Stmt{nested}
			span = span.Cover(nested.Span)
		} else {
			var elseSpan source.Span
			els, elseSpan, ok = p.parseBlock()
			if !ok {
				return nil, false
			}
			span = span.Cover(elseSpan)
		}
	}
	return &ast.Stmt{
		Kind: ast.StmtIf,
		Span: ifTok.Span.Cover(span),
		Data: ast.IfData{Test: test, Then: then, Else: els},
	}, true
}

func (p *Parser) parseWhile() (*ast.Stmt, bool) {
	whileTok := p.advance()
	test, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	p.ctx.loops++
	body, span, ok := p.parseBlock()
	p.ctx.loops--
	if !ok {
		return nil, false
	}
	return &ast.Stmt{
		Kind: ast.StmtWhile,
		Span: whileTok.Span.Cover(span),
		Data: ast.WhileData{Test: test, Body: body},
	}, true
}

func (p *Parser) parseReturn() (*ast.Stmt, bool) {
	retTok := p.advance()
	if !p.ctx.inFunc {
		p.report(diag.SynUnexpectedToken, diag.SevError, retTok.Span, "'return' outside function")
	}
	var value *ast.Expr
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return")
	if !ok || !p.ctx.inFunc {
		return nil, false
	}
	return &ast.Stmt{Kind: ast.StmtReturn, Span: retTok.Span.Cover(semi.Span), Data: ast.ReturnData{Value: value}}, true
}

func (p *Parser) parseSimpleKeyword() (*ast.Stmt, bool) {
	tok := p.advance()
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after '"+tok.Text+"'")
	if !ok {
		return nil, false
	}
	span := tok.Span.Cover(semi.Span)
	switch tok.Kind {
	case token.KwBreak, token.KwContinue:
		if p.ctx.loops == 0 {
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "'"+tok.Text+"' outside loop")
			return nil, false
		}
		if tok.Kind == token.KwBreak {
			return &ast.Stmt{Kind: ast.StmtBreak, Span: span, Data: ast.BreakData{}}, true
		}
		return &ast.Stmt{Kind: ast.StmtContinue, Span: span, Data: ast.ContinueData{}}, true
	default:
		return &ast.Stmt{Kind: ast.StmtPass, Span: span, Data: ast.PassData{}}, true
	}
}

// parseAssignOrExpr: `target = e;`, `target op= e;` или `expr;`.
// Составное присваивание раскрывается в `target = target op e`.
func (p *Parser) parseAssignOrExpr() (*ast.Stmt, bool) {
	lhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	opTok := p.lx.Peek()
	if opTok.Kind != token.Assign && !opTok.Kind.IsAugmentedAssign() {
		semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
		if !ok {
			return nil, false
		}
		return &ast.Stmt{Kind: ast.StmtExpr, Span: lhs.Span.Cover(semi.Span), Data: ast.ExprStmtData{Expr: lhs}}, true
	}
	p.advance()

	if !isAssignable(lhs) {
		p.report(diag.SynInvalidTarget, diag.SevError, lhs.Span, "cannot assign to "+lhs.Kind.String())
		return nil, false
	}
	rhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if base, aug := opTok.Kind.AugmentedBase(); aug {
		if !isSimpleTarget(lhs) {
			p.report(diag.SynInvalidTarget, diag.SevError, lhs.Span, "augmented assignment needs a name or a simple index target")
			return nil, false
		}
		op, _ := binaryOpFor(base)
		rhs = &ast.Expr{
			Kind: ast.ExprBinary,
			Span: lhs.Span.Cover(rhs.Span),
			Data: ast.BinaryData{Op: op, Left: ast.CloneExpr(lhs), Right: rhs},
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment")
	if !ok {
		return nil, false
	}
	return &ast.Stmt{
		Kind: ast.StmtAssign,
		Span: lhs.Span.Cover(semi.Span),
		Data: ast.AssignData{Target: lhs, Value: rhs},
	}, true
}

func isAssignable(e *ast.Expr) bool {
	return e.Kind == ast.ExprIdent || e.Kind == ast.ExprIndex
}

// isSimpleTarget: имя или a[i], где a и i, имена или литералы (без побочных эффектов).
func isSimpleTarget(e *ast.Expr) bool {
	if e.Kind == ast.ExprIdent {
		return true
	}
	d, ok := e.Data.(ast.IndexData)
	if !ok {
		return false
	}
	pure := func(x *ast.Expr) bool { return x.Kind == ast.ExprIdent || x.Kind == ast.ExprLiteral }
	return pure(d.Object) && pure(d.Index)
}
