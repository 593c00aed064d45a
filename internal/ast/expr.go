package ast

import (
	"math/big"

	"shroud/internal/source"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents int, str, bytes, bool and none literals.
	ExprLiteral ExprKind = iota
	// ExprIdent represents a name reference.
	ExprIdent
	// ExprBinary represents arithmetic and bitwise operators.
	ExprBinary
	// ExprUnary represents -x, !x and ~x.
	ExprUnary
	// ExprCall represents callee(args...).
	ExprCall
	// ExprCompare represents == != < <= > >=.
	ExprCompare
	// ExprBoolOp represents n-ary && and ||.
	ExprBoolOp
	// ExprIndex represents object[index].
	ExprIndex
	// ExprAttr represents object.name.
	ExprAttr
	// ExprList represents [a, b, c].
	ExprList
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIdent:
		return "Identifier"
	case ExprBinary:
		return "BinaryOp"
	case ExprUnary:
		return "UnaryOp"
	case ExprCall:
		return "Call"
	case ExprCompare:
		return "Compare"
	case ExprBoolOp:
		return "BoolOp"
	case ExprIndex:
		return "Index"
	case ExprAttr:
		return "Attribute"
	case ExprList:
		return "List"
	default:
		return "Unknown"
	}
}

// Expr is a single expression node.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitStr
	LitBytes
	LitBool
	LitNone
)

func (k LiteralKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitStr:
		return "str"
	case LitBytes:
		return "bytes"
	case LitBool:
		return "bool"
	case LitNone:
		return "none"
	default:
		return "unknown"
	}
}

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind  LiteralKind
	Int   *big.Int // LitInt
	Bytes []byte   // LitStr (UTF-8) and LitBytes
	Bool  bool     // LitBool
}

func (LiteralData) exprData() {}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// BinaryOp enumerates arithmetic and bitwise operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

var binaryOpText = [...]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",
	OpShl:    "<<",
	OpShr:    ">>",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNeg    UnaryOp = iota // -
	OpNot                   // !
	OpInvert                // ~
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpInvert:
		return "~"
	default:
		return "?"
	}
}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

func (CallData) exprData() {}

// CompareOp enumerates comparison operators.
type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (op CompareOp) String() string {
	switch op {
	case CmpEq:
		return "=="
	case CmpNe:
		return "!="
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	default:
		return "?"
	}
}

// CompareData holds data for ExprCompare.
type CompareData struct {
	Op    CompareOp
	Left  *Expr
	Right *Expr
}

func (CompareData) exprData() {}

// BoolOpKind distinguishes && from ||.
type BoolOpKind uint8

const (
	BoolAnd BoolOpKind = iota
	BoolOr
)

func (op BoolOpKind) String() string {
	if op == BoolOr {
		return "||"
	}
	return "&&"
}

// BoolOpData holds data for ExprBoolOp. Operands has at least two entries.
type BoolOpData struct {
	Op       BoolOpKind
	Operands []*Expr
}

func (BoolOpData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Object *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// AttrData holds data for ExprAttr.
type AttrData struct {
	Object *Expr
	Name   string
}

func (AttrData) exprData() {}

// ListData holds data for ExprList.
type ListData struct {
	Elems []*Expr
}

func (ListData) exprData() {}

// Literal returns the literal payload, if e is a literal.
func (e *Expr) Literal() (LiteralData, bool) {
	if e == nil || e.Kind != ExprLiteral {
		return LiteralData{}, false
	}
	d, ok := e.Data.(LiteralData)
	return d, ok
}

// IdentName returns the referenced name, if e is an identifier.
func (e *Expr) IdentName() (string, bool) {
	if e == nil || e.Kind != ExprIdent {
		return "", false
	}
	d, ok := e.Data.(IdentData)
	return d.Name, ok
}
