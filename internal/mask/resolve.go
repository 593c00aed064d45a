package mask

import "shroud/internal/ast"

// Resolve renames prog in place. Names bound at top level (functions,
// assignments, import bindings) live in the global scope; parameters and
// names assigned inside a function live in that function's scope. Names
// that are never bound, such as builtins, and attribute names stay as they
// are. Module paths are kept; only the binding is renamed.
func Resolve(prog *ast.Program, c *Context) {
	r := resolver{c: c, globals: globalNames(prog.Items)}
	for i, it := range prog.Items {
		if it.Kind == ast.StmtFunc {
			r.function(i, it.Data.(ast.FuncData).Func)
			continue
		}
		r.topLevel([]*ast.Stmt{it})
	}
}

type resolver struct {
	c       *Context
	globals map[string]bool
}

func (r *resolver) global(name string) string {
	if !r.globals[name] {
		return name
	}
	return r.c.Token(Global, name)
}

func (r *resolver) topLevel(list []*ast.Stmt) {
	ast.InspectStmts(list, func(s *ast.Stmt) bool {
		switch d := s.Data.(type) {
		case ast.ImportData:
			s.Data = r.importStmt(d)
			return false
		case ast.FromImportData:
			names := make([]ast.ImportName, len(d.Names))
			for i, n := range d.Names {
				n.Alias = r.global(n.Binding())
				names[i] = n
			}
			s.Data = ast.FromImportData{Module: d.Module, Names: names}
			return false
		}
		ast.MapStmtExprs(s, func(e *ast.Expr) *ast.Expr {
			return ast.MapExpr(e, func(x *ast.Expr) *ast.Expr {
				return renameIdent(x, r.global)
			})
		})
		return true
	})
}

func (r *resolver) importStmt(d ast.ImportData) ast.ImportData {
	if d.Alias != "" {
		return ast.ImportData{Path: d.Path, Alias: r.global(d.Alias)}
	}
	// `import a.b` binds a, which is the module a itself
	return ast.ImportData{Path: d.Path[:1:1], Alias: r.global(d.Path[0])}
}

func (r *resolver) function(idx int, fn *ast.Function) {
	scope := Scope{Func: idx, Name: fn.Name}
	locals := localNames(fn)

	fn.Name = r.global(fn.Name)
	lookup := func(name string) string {
		if locals[name] {
			return r.c.Token(scope, name)
		}
		return r.global(name)
	}
	for i := range fn.Params {
		fn.Params[i].Name = lookup(fn.Params[i].Name)
	}
	ast.MapAllExprs(fn.Body, func(x *ast.Expr) *ast.Expr {
		return renameIdent(x, lookup)
	})
}

func renameIdent(x *ast.Expr, lookup func(string) string) *ast.Expr {
	name, ok := x.IdentName()
	if !ok {
		return x
	}
	if masked := lookup(name); masked != name {
		x.Data = ast.IdentData{Name: masked}
	}
	return x
}

func globalNames(items []*ast.Stmt) map[string]bool {
	out := make(map[string]bool)
	for _, it := range items {
		if it.Kind == ast.StmtFunc {
			out[it.Data.(ast.FuncData).Func.Name] = true
			continue
		}
		ast.InspectStmts([]*ast.Stmt{it}, func(s *ast.Stmt) bool {
			switch d := s.Data.(type) {
			case ast.ImportData:
				out[d.Binding()] = true
			case ast.FromImportData:
				for _, n := range d.Names {
					out[n.Binding()] = true
				}
			case ast.AssignData:
				if name, ok := d.Target.IdentName(); ok {
					out[name] = true
				}
			}
			return true
		})
	}
	return out
}

func localNames(fn *ast.Function) map[string]bool {
	out := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		out[p.Name] = true
	}
	ast.InspectStmts(fn.Body, func(s *ast.Stmt) bool {
		if d, ok := s.Data.(ast.AssignData); ok {
			if name, isName := d.Target.IdentName(); isName {
				out[name] = true
			}
		}
		return true
	})
	return out
}
