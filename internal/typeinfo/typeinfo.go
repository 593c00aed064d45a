// Package typeinfo answers one question for the rewriting passes: is this
// expression certainly an integer at run time?
//
// The analysis is flow-insensitive. A local is an int when every assignment
// to it stores an int expression; a parameter additionally needs an `int`
// annotation, since its first value comes from the caller.
package typeinfo

import "shroud/internal/ast"

// Facts holds the int-typed names of one function.
type Facts struct {
	ints map[string]struct{}
}

// Infer computes facts for fn. Names in seeds are treated as ints
// unconditionally; passes use this for variables they rebind themselves.
func Infer(fn *ast.Function, seeds ...string) *Facts {
	f := &Facts{ints: make(map[string]struct{})}
	forced := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		forced[s] = struct{}{}
	}

	params := make(map[string]ast.TypeKind, len(fn.Params))
	for _, p := range fn.Params {
		params[p.Name] = p.Type()
	}

	assigns := make(map[string][]*ast.Expr)
	ast.InspectStmts(fn.Body, func(s *ast.Stmt) bool {
		if d, ok := s.Data.(ast.AssignData); ok {
			if name, isName := d.Target.IdentName(); isName {
				assigns[name] = append(assigns[name], d.Value)
			}
		}
		return true
	})

	// optimistic start, then drop names until nothing changes
	for name, kind := range params {
		if kind == ast.TypeInt {
			f.ints[name] = struct{}{}
		}
	}
	for name := range assigns {
		if kind, isParam := params[name]; isParam && kind != ast.TypeInt {
			continue
		}
		f.ints[name] = struct{}{}
	}
	for name := range forced {
		f.ints[name] = struct{}{}
	}

	for changed := true; changed; {
		changed = false
		for name := range f.ints {
			if _, ok := forced[name]; ok {
				continue
			}
			for _, v := range assigns[name] {
				if !f.IsInt(v) {
					delete(f.ints, name)
					changed = true
					break
				}
			}
		}
	}
	return f
}

// IsIntName reports whether name is int-typed in this function.
func (f *Facts) IsIntName(name string) bool {
	_, ok := f.ints[name]
	return ok
}

// Names returns the int-typed names filtered from order, keeping its order.
func (f *Facts) Names(order []string) []string {
	var out []string
	for _, n := range order {
		if f.IsIntName(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsInt reports whether e always evaluates to an int (or raises).
// Calls, indexing and attribute access are never trusted.
func (f *Facts) IsInt(e *ast.Expr) bool {
	switch d := e.Data.(type) {
	case ast.LiteralData:
		return d.Kind == ast.LitInt
	case ast.IdentData:
		return f.IsIntName(d.Name)
	case ast.UnaryData:
		return (d.Op == ast.OpNeg || d.Op == ast.OpInvert) && f.IsInt(d.Operand)
	case ast.BinaryData:
		return f.IsInt(d.Left) && f.IsInt(d.Right)
	default:
		return false
	}
}

// IsPure reports whether e can be evaluated more than once without changing
// behaviour: only literals, names and operators over them.
func IsPure(e *ast.Expr) bool {
	pure := true
	ast.InspectExpr(e, func(x *ast.Expr) bool {
		switch x.Kind {
		case ast.ExprLiteral, ast.ExprIdent, ast.ExprBinary, ast.ExprUnary:
			return true
		default:
			pure = false
			return false
		}
	})
	return pure
}
