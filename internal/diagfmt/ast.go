package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/source"
)

// ASTNodeOutput is the printable form of one tree node.
type ASTNodeOutput struct {
	Type     string            `json:"type"`
	Kind     string            `json:"kind,omitempty"`
	Span     source.Span       `json:"span"`
	Text     string            `json:"text,omitempty"`
	Children []ASTNodeOutput   `json:"children,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// BuildAST converts prog into printable nodes rooted at a "Program" node.
func BuildAST(prog *ast.Program) ASTNodeOutput {
	root := ASTNodeOutput{Type: "Program"}
	if prog == nil {
		return root
	}
	for _, it := range prog.Items {
		root.Children = append(root.Children, stmtNode(it))
	}
	if n := len(prog.Items); n > 0 {
		root.Span = prog.Items[0].Span.Cover(prog.Items[n-1].Span)
	}
	return root
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, prog *ast.Program) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildAST(prog))
}

func group(name string, list []*ast.Stmt) ASTNodeOutput {
	node := ASTNodeOutput{Type: name, Span: source.Synthetic()}
	for _, s := range list {
		node.Children = append(node.Children, stmtNode(s))
	}
	return node
}

func stmtNode(s *ast.Stmt) ASTNodeOutput {
	node := ASTNodeOutput{Type: s.Kind.String(), Span: s.Span}
	switch d := s.Data.(type) {
	case ast.AssignData:
		node.Children = []ASTNodeOutput{exprNode(d.Target), exprNode(d.Value)}
	case ast.IfData:
		node.Children = []ASTNodeOutput{exprNode(d.Test), group("Then", d.Then)}
		if d.Else != nil {
			node.Children = append(node.Children, group("Else", d.Else))
		}
	case ast.ReturnData:
		if d.Value != nil {
			node.Children = []ASTNodeOutput{exprNode(d.Value)}
		}
	case ast.WhileData:
		node.Children = []ASTNodeOutput{exprNode(d.Test), group("Body", d.Body)}
	case ast.ExprStmtData:
		node.Children = []ASTNodeOutput{exprNode(d.Expr)}
	case ast.ImportData:
		node.Text = strings.Join(d.Path, ".")
		node.Fields = map[string]string{"binding": d.Binding()}
		if d.Alias != "" {
			node.Fields["alias"] = d.Alias
		}
	case ast.FromImportData:
		node.Text = strings.Join(d.Module, ".")
		for _, n := range d.Names {
			child := ASTNodeOutput{Type: "Name", Text: n.Name, Span: n.Span}
			if n.Alias != "" {
				child.Fields = map[string]string{"alias": n.Alias}
			}
			node.Children = append(node.Children, child)
		}
	case ast.FuncData:
		fn := d.Func
		node.Text = fn.Name
		node.Fields = map[string]string{"returns": fn.ReturnType().String()}
		params := ASTNodeOutput{Type: "Params", Span: source.Synthetic()}
		for _, p := range fn.Params {
			params.Children = append(params.Children, ASTNodeOutput{Type: "Param", Text: p.Name, Kind: p.Type().String(), Span: p.Span})
		}
		node.Children = []ASTNodeOutput{params, group("Body", fn.Body)}
	}
	return node
}

func exprNode(e *ast.Expr) ASTNodeOutput {
	node := ASTNodeOutput{Type: e.Kind.String(), Span: e.Span}
	switch d := e.Data.(type) {
	case ast.LiteralData:
		node.Kind = d.Kind.String()
		node.Text = format.Expr(e)
	case ast.IdentData:
		node.Text = d.Name
	case ast.BinaryData:
		node.Kind = d.Op.String()
	case ast.UnaryData:
		node.Kind = d.Op.String()
	case ast.CompareData:
		node.Kind = d.Op.String()
	case ast.BoolOpData:
		node.Kind = d.Op.String()
	case ast.AttrData:
		node.Text = d.Name
	}
	for _, c := range ast.ChildExprs(e) {
		node.Children = append(node.Children, exprNode(c))
	}
	return node
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	if sp.IsSynthetic() {
		return "synthetic"
	}
	if fs == nil || fs.Get(sp.File) == nil {
		return fmt.Sprintf("%d..%d", sp.Start, sp.End)
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
