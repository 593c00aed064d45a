// Package namegen allocates synthetic identifiers that cannot clash with any
// name already present in a program.
package namegen

import (
	"strconv"

	"shroud/internal/ast"
)

// Universe is the set of identifiers a program already uses.
// It is filled before the per-function passes start and only read afterwards.
type Universe struct {
	names map[string]struct{}
}

// Collect gathers every identifier spelled anywhere in prog: names, params,
// function names, import paths and bindings, attribute names.
func Collect(prog *ast.Program) *Universe {
	u := &Universe{names: make(map[string]struct{}, 64)}
	ast.InspectStmts(prog.Items, func(s *ast.Stmt) bool {
		switch d := s.Data.(type) {
		case ast.FuncData:
			u.Add(d.Func.Name)
			for _, p := range d.Func.Params {
				u.Add(p.Name)
			}
		case ast.ImportData:
			u.Add(d.Path...)
			u.Add(d.Alias)
		case ast.FromImportData:
			u.Add(d.Module...)
			for _, n := range d.Names {
				u.Add(n.Name, n.Alias)
			}
		}
		for _, e := range ast.StmtExprs(s) {
			ast.InspectExpr(e, func(x *ast.Expr) bool {
				switch xd := x.Data.(type) {
				case ast.IdentData:
					u.Add(xd.Name)
				case ast.AttrData:
					u.Add(xd.Name)
				}
				return true
			})
		}
		return true
	})
	return u
}

// Add records names; empty strings are ignored.
func (u *Universe) Add(names ...string) {
	for _, n := range names {
		if n != "" {
			u.names[n] = struct{}{}
		}
	}
}

// Has reports whether name is taken.
func (u *Universe) Has(name string) bool {
	_, ok := u.names[name]
	return ok
}

// Len returns the number of known names.
func (u *Universe) Len() int {
	return len(u.names)
}

// Gen hands out fresh names on top of a shared Universe.
// Each goroutine needs its own Gen; the Universe itself is never written.
type Gen struct {
	u     *Universe
	taken map[string]struct{}
}

// NewGen creates a generator over u.
func NewGen(u *Universe) *Gen {
	return &Gen{u: u, taken: make(map[string]struct{})}
}

// Fresh returns base if it is free, otherwise base_1, base_2, ...
func (g *Gen) Fresh(base string) string {
	name := base
	for i := 1; g.busy(name); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	g.taken[name] = struct{}{}
	return name
}

// Reserve marks name as used by this generator.
func (g *Gen) Reserve(name string) {
	g.taken[name] = struct{}{}
}

func (g *Gen) busy(name string) bool {
	if _, ok := g.taken[name]; ok {
		return true
	}
	return g.u.Has(name)
}

// Names returns every known name in unspecified order.
func (u *Universe) Names() []string {
	out := make([]string, 0, len(u.names))
	for n := range u.names {
		out = append(out, n)
	}
	return out
}
