package parser

import (
	"math/big"

	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/token"
)

// parseExpr: вход в разбор выражения (самый низкий приоритет: ||).
func (p *Parser) parseExpr() (*ast.Expr, bool) {
	return p.parseBoolOp(ast.BoolOr)
}

// parseBoolOp собирает цепочку a || b || c в один n-арный BoolOp.
// Скобки сохраняют вложенность: (a || b) || c даёт два узла.
func (p *Parser) parseBoolOp(op ast.BoolOpKind) (*ast.Expr, bool) {
	next := func() (*ast.Expr, bool) {
		if op == ast.BoolOr {
			return p.parseBoolOp(ast.BoolAnd)
		}
		return p.parseBinary(precEquality)
	}
	opTok := token.OrOr
	if op == ast.BoolAnd {
		opTok = token.AndAnd
	}

	first, ok := next()
	if !ok {
		return nil, false
	}
	if !p.at(opTok) {
		return first, true
	}
	operands := []*ast.Expr{first}
	span := first.Span
	for p.at(opTok) {
		p.advance()
		operand, ok := next()
		if !ok {
			return nil, false
		}
		operands = append(operands, operand)
		span = span.Cover(operand.Span)
	}
	return &ast.Expr{Kind: ast.ExprBoolOp, Span: span, Data: ast.BoolOpData{Op: op, Operands: operands}}, true
}

// parseBinary: Pratt-разбор операторов с приоритетом не ниже minPrec.
func (p *Parser) parseBinary(minPrec int) (*ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		opTok := p.lx.Peek()
		prec := binaryPrec(opTok.Kind)
		if prec < minPrec || prec < precEquality {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		span := left.Span.Cover(right.Span)
		if cmp, isCmp := compareOpFor(opTok.Kind); isCmp {
			left = &ast.Expr{Kind: ast.ExprCompare, Span: span, Data: ast.CompareData{Op: cmp, Left: left, Right: right}}
			continue
		}
		op, _ := binaryOpFor(opTok.Kind)
		left = &ast.Expr{Kind: ast.ExprBinary, Span: span, Data: ast.BinaryData{Op: op, Left: left, Right: right}}
	}
}

// parseUnary: -x, !x, ~x. Минус перед целым литералом сворачивается в отрицательный литерал.
func (p *Parser) parseUnary() (*ast.Expr, bool) {
	var op ast.UnaryOp
	switch p.lx.Peek().Kind {
	case token.Minus:
		op = ast.OpNeg
	case token.Bang:
		op = ast.OpNot
	case token.Tilde:
		op = ast.OpInvert
	default:
		return p.parsePostfix()
	}
	opTok := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	span := opTok.Span.Cover(operand.Span)
	if lit, isLit := operand.Literal(); isLit && op == ast.OpNeg && lit.Kind == ast.LitInt {
		return &ast.Expr{Kind: ast.ExprLiteral, Span: span, Data: ast.LiteralData{Kind: ast.LitInt, Int: new(big.Int).Neg(lit.Int)}}, true
	}
	return &ast.Expr{Kind: ast.ExprUnary, Span: span, Data: ast.UnaryData{Op: op, Operand: operand}}, true
}

// parsePostfix: primary, затем цепочка (args), [index], .name
func (p *Parser) parsePostfix() (*ast.Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			p.advance()
			args, closeTok, ok := p.parseExprList(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
			if !ok {
				return nil, false
			}
			expr = &ast.Expr{Kind: ast.ExprCall, Span: expr.Span.Cover(closeTok.Span), Data: ast.CallData{Callee: expr, Args: args}}
		case token.LBracket:
			p.advance()
			idx, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index")
			if !ok {
				return nil, false
			}
			expr = &ast.Expr{Kind: ast.ExprIndex, Span: expr.Span.Cover(closeTok.Span), Data: ast.IndexData{Object: expr, Index: idx}}
		case token.Dot:
			p.advance()
			nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name after '.'")
			if !ok {
				return nil, false
			}
			expr = &ast.Expr{Kind: ast.ExprAttr, Span: expr.Span.Cover(nameTok.Span), Data: ast.AttrData{Object: expr, Name: nameTok.Text}}
		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (*ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, ok := parseIntLiteral(tok.Text)
		if !ok {
			p.report(diag.LexBadNumber, diag.SevError, tok.Span, "malformed integer literal "+tok.Text)
			return nil, false
		}
		return &ast.Expr{Kind: ast.ExprLiteral, Span: tok.Span, Data: ast.LiteralData{Kind: ast.LitInt, Int: v}}, true
	case token.StringLit, token.BytesLit:
		p.advance()
		return p.stringLiteral(tok)
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.Expr{Kind: ast.ExprLiteral, Span: tok.Span, Data: ast.LiteralData{Kind: ast.LitBool, Bool: tok.Kind == token.KwTrue}}, true
	case token.KwNone:
		p.advance()
		return &ast.Expr{Kind: ast.ExprLiteral, Span: tok.Span, Data: ast.LiteralData{Kind: ast.LitNone}}, true
	case token.Ident:
		p.advance()
		return &ast.Expr{Kind: ast.ExprIdent, Span: tok.Span, Data: ast.IdentData{Name: tok.Text}}, true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return nil, false
		}
		return inner, true
	case token.LBracket:
		open := p.advance()
		elems, closeTok, ok := p.parseExprList(token.RBracket, diag.SynUnclosedBracket, "expected ']' after list elements")
		if !ok {
			return nil, false
		}
		return &ast.Expr{Kind: ast.ExprList, Span: open.Span.Cover(closeTok.Span), Data: ast.ListData{Elems: elems}}, true
	case token.Invalid:
		// лексер уже сообщил об ошибке
		p.advance()
		return nil, false
	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return nil, false
	}
}

// parseExprList разбирает `e, e, ...` до закрывающего токена (допускается завершающая запятая).
func (p *Parser) parseExprList(closer token.Kind, code diag.Code, msg string) ([]*ast.Expr, token.Token, bool) {
	var list []*ast.Expr
	for !p.at(closer) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, token.Token{}, false
		}
		list = append(list, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(closer, code, msg)
	return list, closeTok, ok
}
