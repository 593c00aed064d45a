package ast

// Program is an ordered sequence of top-level statements.
type Program struct {
	Items []*Stmt
}

// Funcs returns the top-level function definitions in source order.
func (p *Program) Funcs() []*Function {
	var out []*Function
	for _, it := range p.Items {
		if it.Kind == StmtFunc {
			out = append(out, it.Data.(FuncData).Func)
		}
	}
	return out
}

// LookupFunc finds a top-level function by name. The last definition wins,
// matching run-time rebinding semantics.
func (p *Program) LookupFunc(name string) (*Function, int) {
	var found *Function
	idx := -1
	for i, it := range p.Items {
		if it.Kind != StmtFunc {
			continue
		}
		if fn := it.Data.(FuncData).Func; fn.Name == name {
			found, idx = fn, i
		}
	}
	return found, idx
}

// LastImportIndex returns the index of the last top-level import statement or -1.
func (p *Program) LastImportIndex() int {
	last := -1
	for i, it := range p.Items {
		if it.Kind == StmtImport || it.Kind == StmtFromImport {
			last = i
		}
	}
	return last
}
