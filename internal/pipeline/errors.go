package pipeline

import (
	"fmt"
	"strings"

	"shroud/internal/diag"
	"shroud/internal/source"
)

// TargetNotFoundError lists requested functions that the program does not
// define, in request order. Nothing is rewritten when it is returned.
type TargetNotFoundError struct {
	Missing []string
}

func (e *TargetNotFoundError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("function %q not found", e.Missing[0])
	}
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return "functions not found: " + strings.Join(quoted, ", ")
}

// Code returns the diagnostic code used when the error is reported.
func (e *TargetNotFoundError) Code() diag.Code { return diag.ObfTargetNotFound }

// UnsupportedConstructError is returned in strict mode for a statement that
// flattening would otherwise keep atomic.
type UnsupportedConstructError struct {
	Function  string
	Construct string
	Span      source.Span
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("function %q: %s statement cannot be flattened in strict mode", e.Function, e.Construct)
}

// Code returns the diagnostic code used when the error is reported.
func (e *UnsupportedConstructError) Code() diag.Code { return diag.ObfUnsupported }
