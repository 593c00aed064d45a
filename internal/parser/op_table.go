package parser

import (
	"shroud/internal/ast"
	"shroud/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precNone           = 0
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precEquality       = 4  // == !=
	precComparison     = 5  // < <= > >=
	precBitwiseOr      = 6  // |
	precBitwiseXor     = 7  // ^
	precBitwiseAnd     = 8  // &
	precShift          = 9  // << >>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precUnary          = 12 // - ! ~
	precPostfix        = 13 // call, index, attribute
)

// binaryPrec возвращает приоритет оператора; precNone, не бинарный оператор.
// Все бинарные операторы левоассоциативны.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return precNone
	}
}

func binaryOpFor(kind token.Kind) (ast.BinaryOp, bool) {
	switch kind {
	case token.Plus:
		return ast.OpAdd, true
	case token.Minus:
		return ast.OpSub, true
	case token.Star:
		return ast.OpMul, true
	case token.Slash:
		return ast.OpDiv, true
	case token.Percent:
		return ast.OpMod, true
	case token.Amp:
		return ast.OpBitAnd, true
	case token.Pipe:
		return ast.OpBitOr, true
	case token.Caret:
		return ast.OpBitXor, true
	case token.Shl:
		return ast.OpShl, true
	case token.Shr:
		return ast.OpShr, true
	default:
		return 0, false
	}
}

func compareOpFor(kind token.Kind) (ast.CompareOp, bool) {
	switch kind {
	case token.EqEq:
		return ast.CmpEq, true
	case token.BangEq:
		return ast.CmpNe, true
	case token.Lt:
		return ast.CmpLt, true
	case token.LtEq:
		return ast.CmpLe, true
	case token.Gt:
		return ast.CmpGt, true
	case token.GtEq:
		return ast.CmpGe, true
	default:
		return 0, false
	}
}

// BinaryPrec exposes the binding power of an arithmetic operator to the printer.
func BinaryPrec(op ast.BinaryOp) int {
	switch op {
	case ast.OpBitOr:
		return precBitwiseOr
	case ast.OpBitXor:
		return precBitwiseXor
	case ast.OpBitAnd:
		return precBitwiseAnd
	case ast.OpShl, ast.OpShr:
		return precShift
	case ast.OpAdd, ast.OpSub:
		return precAdditive
	default:
		return precMultiplicative
	}
}

// ComparePrec exposes the binding power of a comparison operator to the printer.
func ComparePrec(op ast.CompareOp) int {
	if op == ast.CmpEq || op == ast.CmpNe {
		return precEquality
	}
	return precComparison
}

// BoolOpPrec exposes the binding power of && and || to the printer.
func BoolOpPrec(op ast.BoolOpKind) int {
	if op == ast.BoolOr {
		return precLogicalOr
	}
	return precLogicalAnd
}

// Binding powers of unary and postfix forms, for the printer.
const (
	UnaryPrec   = precUnary
	PostfixPrec = precPostfix
)
