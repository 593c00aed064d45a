package format

import (
	"shroud/internal/ast"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	writer *Writer
	opt    Options
}

// FormatProgram prints prog as source text. Functions are separated from
// neighbouring items by one blank line.
func FormatProgram(prog *ast.Program, opt Options) []byte {
	opt = opt.withDefaults()
	pr := printer{writer: NewWriter(opt), opt: opt}
	if prog != nil {
		pr.printItems(prog.Items)
	}
	return pr.writer.Bytes()
}

// Unparse prints prog with default options.
func Unparse(prog *ast.Program) string {
	return string(FormatProgram(prog, Options{}))
}

// Expr prints a single expression.
func Expr(e *ast.Expr) string {
	pr := printer{writer: NewWriter(Options{})}
	pr.printExpr(e, precLowest)
	return string(pr.writer.Bytes())
}

func (p *printer) printItems(items []*ast.Stmt) {
	for i, it := range items {
		if i > 0 && (it.Kind == ast.StmtFunc || items[i-1].Kind == ast.StmtFunc) {
			p.writer.BlankLine()
		}
		p.printStmt(it)
	}
}
