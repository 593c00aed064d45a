package vm

import (
	"fmt"
	"strings"

	"shroud/internal/source"
)

// PanicCode identifies the type of runtime failure.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicUnboundName    PanicCode = 1001 // VM1001: name not bound
	PanicTypeMismatch   PanicCode = 1003 // VM1003: type mismatch
	PanicOutOfBounds    PanicCode = 1004 // VM1004: out of bounds
	PanicBadCall        PanicCode = 1005 // VM1005: wrong callee or argument count
	PanicUnknownModule  PanicCode = 1006 // VM1006: import of an unknown module or attribute
	PanicDivisionByZero PanicCode = 1007 // VM1007: division or modulo by zero
	PanicStepLimit      PanicCode = 1008 // VM1008: step budget exhausted
	PanicCallDepth      PanicCode = 1009 // VM1009: call depth limit
	PanicAssert         PanicCode = 1010 // VM1010: assert failed
	PanicBadValue       PanicCode = 1011 // VM1011: value outside the accepted domain
	PanicCancelled      PanicCode = 1012 // VM1012: context cancelled
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// BacktraceFrame represents one frame in the panic backtrace.
type BacktraceFrame struct {
	FuncName string
	Span     source.Span
}

// VMError represents a runtime failure of the interpreted program.
type VMError struct {
	Code      PanicCode
	Message   string
	Span      source.Span      // statement that was executing
	Backtrace []BacktraceFrame // Stack frames from top to bottom
}

// Error implements the error interface.
func (p *VMError) Error() string {
	return fmt.Sprintf("panic %s: %s", p.Code, p.Message)
}

// FormatWithFiles formats the panic with resolved file:line:col information.
func (p *VMError) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "panic %s: %s\n", p.Code, p.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(p.Span, files))
	sb.WriteString("\n")

	if len(p.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range p.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.FuncName, formatSpan(frame.Span, files))
		}
	}

	return sb.String()
}

// formatSpan formats a span as "file:line:col" or "<no-span>" if unknown.
func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || span.IsSynthetic() {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// errorBuilder helps construct VMError values.
type errorBuilder struct {
	vm *VM
}

func (eb *errorBuilder) makeError(code PanicCode, msg string) *VMError {
	e := &VMError{
		Code:    code,
		Message: msg,
		Span:    eb.vm.curSpan,
	}

	// Build backtrace from stack (top to bottom)
	stack := eb.vm.stack
	e.Backtrace = make([]BacktraceFrame, 0, len(stack)+1)
	span := eb.vm.curSpan
	for i := len(stack) - 1; i >= 0; i-- {
		e.Backtrace = append(e.Backtrace, BacktraceFrame{FuncName: stack[i].fn.Name, Span: span})
		span = stack[i].callSpan
	}
	e.Backtrace = append(e.Backtrace, BacktraceFrame{FuncName: "<top>", Span: span})
	return e
}

func (eb *errorBuilder) unbound(name string) *VMError {
	return eb.makeError(PanicUnboundName, fmt.Sprintf("name %q is not defined", name))
}

func (eb *errorBuilder) unboundLocal(name string) *VMError {
	return eb.makeError(PanicUnboundName, fmt.Sprintf("local %q referenced before assignment", name))
}

func (eb *errorBuilder) typeMismatch(expected, got string) *VMError {
	return eb.makeError(PanicTypeMismatch, fmt.Sprintf("type mismatch: expected %s, got %s", expected, got))
}

func (eb *errorBuilder) operandMismatch(op string, l, r Value) *VMError {
	return eb.makeError(PanicTypeMismatch, fmt.Sprintf("unsupported operands for %s: %s and %s", op, l.Kind, r.Kind))
}

func (eb *errorBuilder) outOfBounds(index, length int) *VMError {
	return eb.makeError(PanicOutOfBounds, fmt.Sprintf("index %d out of bounds for length %d", index, length))
}

func (eb *errorBuilder) divisionByZero() *VMError {
	return eb.makeError(PanicDivisionByZero, "division by zero")
}

func (eb *errorBuilder) arity(name string, want, got int) *VMError {
	return eb.makeError(PanicBadCall, fmt.Sprintf("%s expects %d argument(s), got %d", name, want, got))
}
