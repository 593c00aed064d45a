package ast

import "math/big"

// CloneProgram returns a deep copy of p.
func CloneProgram(p *Program) *Program {
	if p == nil {
		return nil
	}
	return &Program{Items: CloneStmts(p.Items)}
}

// CloneFunc returns a deep copy of fn.
func CloneFunc(fn *Function) *Function {
	if fn == nil {
		return nil
	}
	out := *fn
	out.Params = append([]Param(nil), fn.Params...)
	out.Body = CloneStmts(fn.Body)
	return &out
}

// CloneStmts deep-copies a statement list. A nil list stays nil.
func CloneStmts(list []*Stmt) []*Stmt {
	if list == nil {
		return nil
	}
	out := make([]*Stmt, len(list))
	for i, s := range list {
		out[i] = CloneStmt(s)
	}
	return out
}

// CloneStmt returns a deep copy of s.
func CloneStmt(s *Stmt) *Stmt {
	if s == nil {
		return nil
	}
	out := &Stmt{Kind: s.Kind, Span: s.Span}
	switch d := s.Data.(type) {
	case AssignData:
		out.Data = AssignData{Target: CloneExpr(d.Target), Value: CloneExpr(d.Value)}
	case IfData:
		out.Data = IfData{Test: CloneExpr(d.Test), Then: CloneStmts(d.Then), Else: CloneStmts(d.Else)}
	case ReturnData:
		out.Data = ReturnData{Value: CloneExpr(d.Value)}
	case WhileData:
		out.Data = WhileData{Test: CloneExpr(d.Test), Body: CloneStmts(d.Body)}
	case ExprStmtData:
		out.Data = ExprStmtData{Expr: CloneExpr(d.Expr)}
	case ImportData:
		out.Data = ImportData{Path: append([]string(nil), d.Path...), Alias: d.Alias}
	case FromImportData:
		out.Data = FromImportData{Module: append([]string(nil), d.Module...), Names: append([]ImportName(nil), d.Names...)}
	case FuncData:
		out.Data = FuncData{Func: CloneFunc(d.Func)}
	default:
		// BreakData, ContinueData, PassData не содержат ссылок
		out.Data = s.Data
	}
	return out
}

// CloneExpr returns a deep copy of e.
func CloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	out := &Expr{Kind: e.Kind, Span: e.Span}
	switch d := e.Data.(type) {
	case LiteralData:
		c := LiteralData{Kind: d.Kind, Bool: d.Bool}
		if d.Int != nil {
			c.Int = new(big.Int).Set(d.Int)
		}
		if d.Bytes != nil {
			c.Bytes = append([]byte(nil), d.Bytes...)
		}
		out.Data = c
	case IdentData:
		out.Data = d
	case BinaryData:
		out.Data = BinaryData{Op: d.Op, Left: CloneExpr(d.Left), Right: CloneExpr(d.Right)}
	case UnaryData:
		out.Data = UnaryData{Op: d.Op, Operand: CloneExpr(d.Operand)}
	case CallData:
		out.Data = CallData{Callee: CloneExpr(d.Callee), Args: cloneExprs(d.Args)}
	case CompareData:
		out.Data = CompareData{Op: d.Op, Left: CloneExpr(d.Left), Right: CloneExpr(d.Right)}
	case BoolOpData:
		out.Data = BoolOpData{Op: d.Op, Operands: cloneExprs(d.Operands)}
	case IndexData:
		out.Data = IndexData{Object: CloneExpr(d.Object), Index: CloneExpr(d.Index)}
	case AttrData:
		out.Data = AttrData{Object: CloneExpr(d.Object), Name: d.Name}
	case ListData:
		out.Data = ListData{Elems: cloneExprs(d.Elems)}
	default:
		out.Data = e.Data
	}
	return out
}

func cloneExprs(list []*Expr) []*Expr {
	if list == nil {
		return nil
	}
	out := make([]*Expr, len(list))
	for i, e := range list {
		out[i] = CloneExpr(e)
	}
	return out
}
