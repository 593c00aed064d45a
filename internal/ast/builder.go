package ast

import (
	"math/big"

	"shroud/internal/source"
)

// Constructors for synthesized nodes. All of them carry source.Synthetic() spans.

func synth() source.Span { return source.Synthetic() }

func IntLit(v int64) *Expr { return BigLit(big.NewInt(v)) }

func BigLit(v *big.Int) *Expr {
	return &Expr{Kind: ExprLiteral, Span: synth(), Data: LiteralData{Kind: LitInt, Int: new(big.Int).Set(v)}}
}

func StrLit(s string) *Expr {
	return &Expr{Kind: ExprLiteral, Span: synth(), Data: LiteralData{Kind: LitStr, Bytes: []byte(s)}}
}

func BytesLit(b []byte) *Expr {
	return &Expr{Kind: ExprLiteral, Span: synth(), Data: LiteralData{Kind: LitBytes, Bytes: append([]byte(nil), b...)}}
}

func BoolLit(v bool) *Expr {
	return &Expr{Kind: ExprLiteral, Span: synth(), Data: LiteralData{Kind: LitBool, Bool: v}}
}

func NoneLit() *Expr {
	return &Expr{Kind: ExprLiteral, Span: synth(), Data: LiteralData{Kind: LitNone}}
}

func Name(name string) *Expr {
	return &Expr{Kind: ExprIdent, Span: synth(), Data: IdentData{Name: name}}
}

func Binary(op BinaryOp, l, r *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Span: synth(), Data: BinaryData{Op: op, Left: l, Right: r}}
}

func Unary(op UnaryOp, x *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Span: synth(), Data: UnaryData{Op: op, Operand: x}}
}

func Call(callee *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Span: synth(), Data: CallData{Callee: callee, Args: args}}
}

// CallName calls a function by name.
func CallName(name string, args ...*Expr) *Expr { return Call(Name(name), args...) }

func Compare(op CompareOp, l, r *Expr) *Expr {
	return &Expr{Kind: ExprCompare, Span: synth(), Data: CompareData{Op: op, Left: l, Right: r}}
}

// BoolOp joins operands with op. A single operand is returned as is.
func BoolOp(op BoolOpKind, operands ...*Expr) *Expr {
	if len(operands) == 1 {
		return operands[0]
	}
	return &Expr{Kind: ExprBoolOp, Span: synth(), Data: BoolOpData{Op: op, Operands: operands}}
}

func Index(obj, idx *Expr) *Expr {
	return &Expr{Kind: ExprIndex, Span: synth(), Data: IndexData{Object: obj, Index: idx}}
}

func Attr(obj *Expr, name string) *Expr {
	return &Expr{Kind: ExprAttr, Span: synth(), Data: AttrData{Object: obj, Name: name}}
}

func List(elems ...*Expr) *Expr {
	return &Expr{Kind: ExprList, Span: synth(), Data: ListData{Elems: elems}}
}

func Assign(target, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Span: synth(), Data: AssignData{Target: target, Value: value}}
}

// AssignName assigns value to a plain variable.
func AssignName(name string, value *Expr) *Stmt { return Assign(Name(name), value) }

func If(test *Expr, then, els []*Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Span: synth(), Data: IfData{Test: test, Then: then, Else: els}}
}

func Return(value *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Span: synth(), Data: ReturnData{Value: value}}
}

func While(test *Expr, body []*Stmt) *Stmt {
	return &Stmt{Kind: StmtWhile, Span: synth(), Data: WhileData{Test: test, Body: body}}
}

func ExprStmt(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Span: synth(), Data: ExprStmtData{Expr: e}}
}

func Pass() *Stmt {
	return &Stmt{Kind: StmtPass, Span: synth(), Data: PassData{}}
}

func FuncStmt(fn *Function) *Stmt {
	return &Stmt{Kind: StmtFunc, Span: fn.Span, Data: FuncData{Func: fn}}
}
