package format

import (
	"shroud/internal/ast"
)

func (p *printer) printFn(fn *ast.Function) {
	w := p.writer
	w.WriteString("fn ")
	w.WriteString(fn.Name)
	w.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(param.Name)
		if param.Annot != "" {
			w.WriteString(": ")
			w.WriteString(param.Annot)
		}
	}
	w.WriteString(")")
	if fn.Returns != "" {
		w.WriteString(" -> ")
		w.WriteString(fn.Returns)
	}
	w.Space()
	p.printBlock(fn.Body)
}
