package vm

import (
	"fmt"
	"io"

	"shroud/internal/ast"
	"shroud/internal/source"
)

// Tracer outputs execution traces for debugging.
type Tracer struct {
	w     io.Writer
	files *source.FileSet
}

// NewTracer creates a new tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// TraceStmt traces execution of a statement.
// Format: [depth=N] <func> <kind> @ <file>:<line>:<col>
func (t *Tracer) TraceStmt(depth int, fn string, s *ast.Stmt) {
	if t == nil || t.w == nil {
		return
	}
	fmt.Fprintf(t.w, "[depth=%d] %s %s @ %s\n", depth, fn, s.Kind, formatSpan(s.Span, t.files))
}
