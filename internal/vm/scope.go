package vm

import (
	"shroud/internal/ast"
)

// localNames: параметры плюс все имена, которым что-либо присваивается в теле
// (включая вложенные блоки). Присваивание по индексу имя не связывает.
func localNames(fn *ast.Function) map[string]bool {
	set := make(map[string]bool, len(fn.Params)+4)
	for _, p := range fn.Params {
		set[p.Name] = true
	}
	ast.InspectStmts(fn.Body, func(s *ast.Stmt) bool {
		if d, ok := s.Data.(ast.AssignData); ok {
			if name, ok := d.Target.IdentName(); ok {
				set[name] = true
			}
		}
		return true
	})
	return set
}

func (vm *VM) cachedLocals(fn *ast.Function) map[string]bool {
	if set, ok := vm.localSets[fn]; ok {
		return set
	}
	set := localNames(fn)
	vm.localSets[fn] = set
	return set
}
