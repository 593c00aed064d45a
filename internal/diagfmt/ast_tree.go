package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"shroud/internal/ast"
	"shroud/internal/source"
)

// FormatASTTree prints prog as a box-drawing tree. Spans are shown as
// line:col ranges when fs knows the file.
func FormatASTTree(w io.Writer, prog *ast.Program, fs *source.FileSet, path string) error {
	root := BuildAST(prog)
	if path != "" {
		root.Text = path
	}
	var b strings.Builder
	b.WriteString(label(root, fs) + "\n")
	for i, c := range root.Children {
		writeTree(&b, c, fs, "", i == len(root.Children)-1)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, n ASTNodeOutput, fs *source.FileSet, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	b.WriteString(prefix + branch + label(n, fs) + "\n")
	for i, c := range n.Children {
		writeTree(b, c, fs, prefix+next, i == len(n.Children)-1)
	}
}

func label(n ASTNodeOutput, fs *source.FileSet) string {
	var b strings.Builder
	b.WriteString(n.Type)
	if n.Kind != "" {
		b.WriteString(" " + n.Kind)
	}
	if n.Text != "" {
		b.WriteString(" " + n.Text)
	}
	if len(n.Fields) > 0 {
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + n.Fields[k]
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, " "))
	}
	if !n.Span.IsSynthetic() {
		fmt.Fprintf(&b, " (span: %s)", formatSpan(n.Span, fs))
	}
	return b.String()
}
