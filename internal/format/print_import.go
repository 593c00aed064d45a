package format

import (
	"strings"

	"shroud/internal/ast"
)

func (p *printer) printImport(d ast.ImportData) {
	w := p.writer
	w.WriteString("import ")
	w.WriteString(strings.Join(d.Path, "."))
	if d.Alias != "" {
		w.WriteString(" as ")
		w.WriteString(d.Alias)
	}
	w.WriteString(";")
}

func (p *printer) printFromImport(d ast.FromImportData) {
	w := p.writer
	w.WriteString("from ")
	w.WriteString(strings.Join(d.Module, "."))
	w.WriteString(" import ")
	for i, n := range d.Names {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(n.Name)
		if n.Alias != "" {
			w.WriteString(" as ")
			w.WriteString(n.Alias)
		}
	}
	w.WriteString(";")
}
