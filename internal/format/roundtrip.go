package format

import (
	"errors"
	"fmt"

	"shroud/internal/ast"
	"shroud/internal/parser"
)

// CheckRoundTrip prints prog, parses the result again and compares the trees.
func CheckRoundTrip(prog *ast.Program, opt Options) (ok bool, msg string) {
	if prog == nil {
		return false, "fmt-check: nil program"
	}
	formatted := FormatProgram(prog, opt)
	reparsed, err := parser.ParseString("<fmt-check>", string(formatted))
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			return false, fmt.Sprintf("fmt-check: reparse failed at %d:%d: %s", perr.Pos.Line, perr.Pos.Col, perr.First.Message)
		}
		return false, "fmt-check: reparse failed: " + err.Error()
	}
	if len(reparsed.Items) != len(prog.Items) {
		return false, fmt.Sprintf("fmt-check: %d top-level items after round-trip, want %d", len(reparsed.Items), len(prog.Items))
	}
	for i := range prog.Items {
		if !ast.EqualStmt(prog.Items[i], reparsed.Items[i]) {
			return false, fmt.Sprintf("fmt-check: item %d (%s) differs after round-trip", i, prog.Items[i].Kind)
		}
	}
	return true, "fmt-check: OK"
}
