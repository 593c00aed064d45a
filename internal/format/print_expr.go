package format

import (
	"shroud/internal/ast"
	"shroud/internal/parser"
)

const (
	precLowest = 0
	precAtom   = parser.PostfixPrec + 1
)

// exprPrec: сила связывания узла в том виде, как он будет напечатан.
func exprPrec(e *ast.Expr) int {
	switch d := e.Data.(type) {
	case ast.LiteralData:
		if d.Kind == ast.LitInt && d.Int.Sign() < 0 {
			return parser.UnaryPrec
		}
		return precAtom
	case ast.BinaryData:
		return parser.BinaryPrec(d.Op)
	case ast.CompareData:
		return parser.ComparePrec(d.Op)
	case ast.BoolOpData:
		if len(d.Operands) == 1 {
			return exprPrec(d.Operands[0])
		}
		return parser.BoolOpPrec(d.Op)
	case ast.UnaryData:
		return parser.UnaryPrec
	case ast.CallData, ast.IndexData, ast.AttrData:
		return parser.PostfixPrec
	default:
		return precAtom
	}
}

// printExpr печатает e, оборачивая в скобки, если узел связывает слабее minPrec.
func (p *printer) printExpr(e *ast.Expr, minPrec int) {
	w := p.writer
	if exprPrec(e) < minPrec {
		w.WriteString("(")
		p.printExpr(e, precLowest)
		w.WriteString(")")
		return
	}

	switch d := e.Data.(type) {
	case ast.LiteralData:
		w.WriteString(literalText(d))
	case ast.IdentData:
		w.WriteString(d.Name)
	case ast.BinaryData:
		prec := parser.BinaryPrec(d.Op)
		p.printExpr(d.Left, prec)
		w.WriteString(" " + d.Op.String() + " ")
		p.printExpr(d.Right, prec+1)
	case ast.CompareData:
		prec := parser.ComparePrec(d.Op)
		p.printExpr(d.Left, prec)
		w.WriteString(" " + d.Op.String() + " ")
		p.printExpr(d.Right, prec+1)
	case ast.BoolOpData:
		p.printBoolOp(d)
	case ast.UnaryData:
		w.WriteString(d.Op.String())
		operand := d.Operand
		if lit, ok := operand.Literal(); ok && d.Op == ast.OpNeg && lit.Kind == ast.LitInt {
			// -(5) и -(-5): без скобок парсер свернул бы знак в литерал
			w.WriteString("(")
			p.printExpr(operand, precLowest)
			w.WriteString(")")
			return
		}
		p.printExpr(operand, parser.UnaryPrec)
	case ast.CallData:
		p.printExpr(d.Callee, parser.PostfixPrec)
		w.WriteString("(")
		p.printExprList(d.Args)
		w.WriteString(")")
	case ast.IndexData:
		p.printExpr(d.Object, parser.PostfixPrec)
		w.WriteString("[")
		p.printExpr(d.Index, precLowest)
		w.WriteString("]")
	case ast.AttrData:
		p.printExpr(d.Object, parser.PostfixPrec)
		w.WriteString(".")
		w.WriteString(d.Name)
	case ast.ListData:
		w.WriteString("[")
		p.printExprList(d.Elems)
		w.WriteString("]")
	}
}

// printBoolOp: операнды печатаются с приоритетом выше собственного,
// поэтому вложенный BoolOp того же вида получает скобки и не сливается при повторном разборе.
func (p *printer) printBoolOp(d ast.BoolOpData) {
	w := p.writer
	switch len(d.Operands) {
	case 0:
		// пустая конъюнкция истинна, пустая дизъюнкция ложна
		if d.Op == ast.BoolAnd {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
		return
	case 1:
		p.printExpr(d.Operands[0], precLowest)
		return
	}
	prec := parser.BoolOpPrec(d.Op)
	for i, operand := range d.Operands {
		if i > 0 {
			w.WriteString(" " + d.Op.String() + " ")
		}
		p.printExpr(operand, prec+1)
	}
}

func (p *printer) printExprList(list []*ast.Expr) {
	for i, e := range list {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printExpr(e, precLowest)
	}
}
