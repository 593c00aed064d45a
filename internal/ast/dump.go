package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented tree view of p, one node per line.
func Dump(w io.Writer, p *Program) error {
	d := dumper{w: w}
	for _, s := range p.Items {
		d.stmt(s, 0)
	}
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) body(label string, list []*Stmt, depth int) {
	if list == nil {
		return
	}
	d.line(depth, "%s:", label)
	for _, s := range list {
		d.stmt(s, depth+1)
	}
}

func (d *dumper) stmt(s *Stmt, depth int) {
	switch data := s.Data.(type) {
	case AssignData:
		d.line(depth, "Assign")
		d.expr(data.Target, depth+1)
		d.expr(data.Value, depth+1)
	case IfData:
		d.line(depth, "If")
		d.expr(data.Test, depth+1)
		d.body("then", data.Then, depth+1)
		d.body("else", data.Else, depth+1)
	case ReturnData:
		d.line(depth, "Return")
		if data.Value != nil {
			d.expr(data.Value, depth+1)
		}
	case WhileData:
		d.line(depth, "While")
		d.expr(data.Test, depth+1)
		d.body("body", data.Body, depth+1)
	case ExprStmtData:
		d.line(depth, "Expr")
		d.expr(data.Expr, depth+1)
	case ImportData:
		d.line(depth, "Import %s as %s", strings.Join(data.Path, "."), data.Binding())
	case FromImportData:
		names := make([]string, 0, len(data.Names))
		for _, n := range data.Names {
			names = append(names, n.Name+" as "+n.Binding())
		}
		d.line(depth, "FromImport %s: %s", strings.Join(data.Module, "."), strings.Join(names, ", "))
	case FuncData:
		fn := data.Func
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, p.Name+":"+p.Type().String())
		}
		d.line(depth, "Func %s(%s) -> %s", fn.Name, strings.Join(params, ", "), fn.ReturnType())
		d.body("body", fn.Body, depth+1)
	default:
		d.line(depth, "%s", s.Kind)
	}
}

func (d *dumper) expr(e *Expr, depth int) {
	switch data := e.Data.(type) {
	case LiteralData:
		d.line(depth, "Literal %s %s", data.Kind, literalText(data))
	case IdentData:
		d.line(depth, "Identifier %s", data.Name)
	case BinaryData:
		d.line(depth, "BinaryOp %s", data.Op)
	case UnaryData:
		d.line(depth, "UnaryOp %s", data.Op)
	case CompareData:
		d.line(depth, "Compare %s", data.Op)
	case BoolOpData:
		d.line(depth, "BoolOp %s", data.Op)
	case AttrData:
		d.line(depth, "Attribute .%s", data.Name)
	default:
		d.line(depth, "%s", e.Kind)
	}
	for _, c := range ChildExprs(e) {
		d.expr(c, depth+1)
	}
}

func literalText(l LiteralData) string {
	switch l.Kind {
	case LitInt:
		return l.Int.String()
	case LitStr:
		return strconv.Quote(string(l.Bytes))
	case LitBytes:
		return fmt.Sprintf("%x", l.Bytes)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	default:
		return "none"
	}
}
