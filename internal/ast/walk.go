package ast

// ChildExprs returns the direct sub-expressions of e in evaluation order.
func ChildExprs(e *Expr) []*Expr {
	switch d := e.Data.(type) {
	case BinaryData:
		return []*Expr{d.Left, d.Right}
	case UnaryData:
		return []*Expr{d.Operand}
	case CallData:
		return append([]*Expr{d.Callee}, d.Args...)
	case CompareData:
		return []*Expr{d.Left, d.Right}
	case BoolOpData:
		return d.Operands
	case IndexData:
		return []*Expr{d.Object, d.Index}
	case AttrData:
		return []*Expr{d.Object}
	case ListData:
		return d.Elems
	default:
		return nil
	}
}

// InspectExpr walks e in pre-order. Children are skipped when fn returns false.
func InspectExpr(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range ChildExprs(e) {
		InspectExpr(c, fn)
	}
}

// MapExpr rebuilds e bottom-up: children are mapped first, then fn is applied
// to the node itself. fn must not return nil.
func MapExpr(e *Expr, fn func(*Expr) *Expr) *Expr {
	if e == nil {
		return nil
	}
	switch d := e.Data.(type) {
	case BinaryData:
		e.Data = BinaryData{Op: d.Op, Left: MapExpr(d.Left, fn), Right: MapExpr(d.Right, fn)}
	case UnaryData:
		e.Data = UnaryData{Op: d.Op, Operand: MapExpr(d.Operand, fn)}
	case CallData:
		e.Data = CallData{Callee: MapExpr(d.Callee, fn), Args: mapExprs(d.Args, fn)}
	case CompareData:
		e.Data = CompareData{Op: d.Op, Left: MapExpr(d.Left, fn), Right: MapExpr(d.Right, fn)}
	case BoolOpData:
		e.Data = BoolOpData{Op: d.Op, Operands: mapExprs(d.Operands, fn)}
	case IndexData:
		e.Data = IndexData{Object: MapExpr(d.Object, fn), Index: MapExpr(d.Index, fn)}
	case AttrData:
		e.Data = AttrData{Object: MapExpr(d.Object, fn), Name: d.Name}
	case ListData:
		e.Data = ListData{Elems: mapExprs(d.Elems, fn)}
	}
	return fn(e)
}

func mapExprs(list []*Expr, fn func(*Expr) *Expr) []*Expr {
	for i, e := range list {
		list[i] = MapExpr(e, fn)
	}
	return list
}

// StmtExprs returns the expressions held directly by s (nested statement
// bodies are not included). Assignment targets come first.
func StmtExprs(s *Stmt) []*Expr {
	switch d := s.Data.(type) {
	case AssignData:
		return []*Expr{d.Target, d.Value}
	case IfData:
		return []*Expr{d.Test}
	case ReturnData:
		if d.Value == nil {
			return nil
		}
		return []*Expr{d.Value}
	case WhileData:
		return []*Expr{d.Test}
	case ExprStmtData:
		return []*Expr{d.Expr}
	default:
		return nil
	}
}

// MapStmtExprs replaces every expression held directly by s with fn(expr).
func MapStmtExprs(s *Stmt, fn func(*Expr) *Expr) {
	switch d := s.Data.(type) {
	case AssignData:
		s.Data = AssignData{Target: fn(d.Target), Value: fn(d.Value)}
	case IfData:
		s.Data = IfData{Test: fn(d.Test), Then: d.Then, Else: d.Else}
	case ReturnData:
		if d.Value != nil {
			s.Data = ReturnData{Value: fn(d.Value)}
		}
	case WhileData:
		s.Data = WhileData{Test: fn(d.Test), Body: d.Body}
	case ExprStmtData:
		s.Data = ExprStmtData{Expr: fn(d.Expr)}
	}
}

// MapBodies replaces every statement list nested directly in s with fn(list).
func MapBodies(s *Stmt, fn func([]*Stmt) []*Stmt) {
	switch d := s.Data.(type) {
	case IfData:
		s.Data = IfData{Test: d.Test, Then: fn(d.Then), Else: fn(d.Else)}
	case WhileData:
		s.Data = WhileData{Test: d.Test, Body: fn(d.Body)}
	case FuncData:
		d.Func.Body = fn(d.Func.Body)
	}
}

// InspectStmts walks list in pre-order, descending into if/while bodies and
// function bodies while fn returns true.
func InspectStmts(list []*Stmt, fn func(*Stmt) bool) {
	for _, s := range list {
		if !fn(s) {
			continue
		}
		switch d := s.Data.(type) {
		case IfData:
			InspectStmts(d.Then, fn)
			InspectStmts(d.Else, fn)
		case WhileData:
			InspectStmts(d.Body, fn)
		case FuncData:
			InspectStmts(d.Func.Body, fn)
		}
	}
}

// InspectAllExprs visits every expression of every statement reachable from list.
func InspectAllExprs(list []*Stmt, fn func(*Expr) bool) {
	InspectStmts(list, func(s *Stmt) bool {
		for _, e := range StmtExprs(s) {
			InspectExpr(e, fn)
		}
		return true
	})
}

// MapAllExprs rewrites every expression of every statement reachable from
// list, bottom-up, using fn.
func MapAllExprs(list []*Stmt, fn func(*Expr) *Expr) {
	InspectStmts(list, func(s *Stmt) bool {
		MapStmtExprs(s, func(e *Expr) *Expr { return MapExpr(e, fn) })
		return true
	})
}

// CountNodes returns the number of expression nodes in e.
func CountNodes(e *Expr) int {
	n := 0
	InspectExpr(e, func(*Expr) bool {
		n++
		return true
	})
	return n
}
