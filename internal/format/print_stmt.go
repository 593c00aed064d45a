package format

import (
	"shroud/internal/ast"
)

func (p *printer) printStmt(s *ast.Stmt) {
	w := p.writer
	switch d := s.Data.(type) {
	case ast.AssignData:
		p.printExpr(d.Target, precLowest)
		w.WriteString(" = ")
		p.printExpr(d.Value, precLowest)
		w.WriteString(";")
	case ast.IfData:
		p.printIf(d)
	case ast.ReturnData:
		w.WriteString("return")
		if d.Value != nil {
			w.Space()
			p.printExpr(d.Value, precLowest)
		}
		w.WriteString(";")
	case ast.WhileData:
		w.WriteString("while ")
		p.printExpr(d.Test, precLowest)
		w.Space()
		p.printBlock(d.Body)
	case ast.BreakData:
		w.WriteString("break;")
	case ast.ContinueData:
		w.WriteString("continue;")
	case ast.PassData:
		w.WriteString("pass;")
	case ast.ExprStmtData:
		p.printExpr(d.Expr, precLowest)
		w.WriteString(";")
	case ast.ImportData:
		p.printImport(d)
	case ast.FromImportData:
		p.printFromImport(d)
	case ast.FuncData:
		p.printFn(d.Func)
	}
	w.Newline()
}

func (p *printer) printIf(d ast.IfData) {
	w := p.writer
	w.WriteString("if ")
	p.printExpr(d.Test, precLowest)
	w.Space()
	p.printBlock(d.Then)
	if len(d.Else) == 0 {
		return
	}
	w.WriteString(" else ")
	if len(d.Else) == 1 && d.Else[0].Kind == ast.StmtIf {
		p.printIf(d.Else[0].Data.(ast.IfData))
		return
	}
	p.printBlock(d.Else)
}

// printBlock печатает `{ ... }`; пустой блок, `{}` в одну строку.
func (p *printer) printBlock(body []*ast.Stmt) {
	w := p.writer
	if len(body) == 0 {
		w.WriteString("{}")
		return
	}
	w.WriteString("{")
	w.Newline()
	w.IndentPush()
	for _, s := range body {
		p.printStmt(s)
	}
	w.IndentPop()
	w.WriteString("}")
}
