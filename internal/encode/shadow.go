package encode

import (
	"slices"

	"shroud/internal/ast"
)

// Builtins are the builtin functions the helpers and decode sites call by
// their bare names.
var Builtins = []string{"byte", "decode", "encode", "len"}

// Shadowed returns the sorted subset of Builtins that prog rebinds anywhere:
// as a function name, a parameter, an import binding or an assignment target,
// at top level or inside a body. Encoded code would call the user's binding
// instead of the builtin, so any hit disables the encode pass.
func Shadowed(prog *ast.Program) []string {
	hit := make(map[string]bool)
	bind := func(name string) {
		if slices.Contains(Builtins, name) {
			hit[name] = true
		}
	}
	ast.InspectStmts(prog.Items, func(s *ast.Stmt) bool {
		switch d := s.Data.(type) {
		case ast.FuncData:
			bind(d.Func.Name)
			for _, p := range d.Func.Params {
				bind(p.Name)
			}
		case ast.ImportData:
			bind(d.Binding())
		case ast.FromImportData:
			for _, n := range d.Names {
				bind(n.Binding())
			}
		case ast.AssignData:
			// b[i] = v не связывает имя
			if name, ok := d.Target.IdentName(); ok {
				bind(name)
			}
		}
		return true
	})
	if len(hit) == 0 {
		return nil
	}
	out := make([]string, 0, len(hit))
	for name := range hit {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
