package ast

import "bytes"

// EqualProgram reports structural equality of two programs, ignoring spans.
func EqualProgram(a, b *Program) bool {
	if a == nil || b == nil {
		return a == b
	}
	return EqualStmts(a.Items, b.Items)
}

// EqualStmts compares statement lists; nil and empty lists are equal.
func EqualStmts(a, b []*Stmt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualStmt(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualStmt reports structural equality of two statements, ignoring spans.
func EqualStmt(a, b *Stmt) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch da := a.Data.(type) {
	case AssignData:
		db := b.Data.(AssignData)
		return EqualExpr(da.Target, db.Target) && EqualExpr(da.Value, db.Value)
	case IfData:
		db := b.Data.(IfData)
		return EqualExpr(da.Test, db.Test) && EqualStmts(da.Then, db.Then) && EqualStmts(da.Else, db.Else)
	case ReturnData:
		return EqualExpr(da.Value, b.Data.(ReturnData).Value)
	case WhileData:
		db := b.Data.(WhileData)
		return EqualExpr(da.Test, db.Test) && EqualStmts(da.Body, db.Body)
	case ExprStmtData:
		return EqualExpr(da.Expr, b.Data.(ExprStmtData).Expr)
	case ImportData:
		db := b.Data.(ImportData)
		return equalStrings(da.Path, db.Path) && da.Alias == db.Alias
	case FromImportData:
		db := b.Data.(FromImportData)
		if !equalStrings(da.Module, db.Module) || len(da.Names) != len(db.Names) {
			return false
		}
		for i := range da.Names {
			if da.Names[i].Name != db.Names[i].Name || da.Names[i].Alias != db.Names[i].Alias {
				return false
			}
		}
		return true
	case FuncData:
		return equalFunc(da.Func, b.Data.(FuncData).Func)
	default:
		return true
	}
}

func equalFunc(a, b *Function) bool {
	if a.Name != b.Name || a.Returns != b.Returns || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Name != b.Params[i].Name || a.Params[i].Annot != b.Params[i].Annot {
			return false
		}
	}
	return EqualStmts(a.Body, b.Body)
}

// EqualExpr reports structural equality of two expressions, ignoring spans.
func EqualExpr(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch da := a.Data.(type) {
	case LiteralData:
		db := b.Data.(LiteralData)
		if da.Kind != db.Kind {
			return false
		}
		switch da.Kind {
		case LitInt:
			return da.Int.Cmp(db.Int) == 0
		case LitStr, LitBytes:
			return bytes.Equal(da.Bytes, db.Bytes)
		case LitBool:
			return da.Bool == db.Bool
		default:
			return true
		}
	case IdentData:
		return da.Name == b.Data.(IdentData).Name
	case BinaryData:
		db := b.Data.(BinaryData)
		return da.Op == db.Op && EqualExpr(da.Left, db.Left) && EqualExpr(da.Right, db.Right)
	case UnaryData:
		db := b.Data.(UnaryData)
		return da.Op == db.Op && EqualExpr(da.Operand, db.Operand)
	case CallData:
		db := b.Data.(CallData)
		return EqualExpr(da.Callee, db.Callee) && equalExprs(da.Args, db.Args)
	case CompareData:
		db := b.Data.(CompareData)
		return da.Op == db.Op && EqualExpr(da.Left, db.Left) && EqualExpr(da.Right, db.Right)
	case BoolOpData:
		db := b.Data.(BoolOpData)
		return da.Op == db.Op && equalExprs(da.Operands, db.Operands)
	case IndexData:
		db := b.Data.(IndexData)
		return EqualExpr(da.Object, db.Object) && EqualExpr(da.Index, db.Index)
	case AttrData:
		db := b.Data.(AttrData)
		return da.Name == db.Name && EqualExpr(da.Object, db.Object)
	case ListData:
		return equalExprs(da.Elems, b.Data.(ListData).Elems)
	default:
		return false
	}
}

func equalExprs(a, b []*Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
