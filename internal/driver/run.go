package driver

import (
	"context"
	"fmt"
	"io"

	"shroud/internal/ast"
	"shroud/internal/parser"
	"shroud/internal/source"
	"shroud/internal/trace"
	"shroud/internal/vm"
)

// RunOptions configures RunFile.
type RunOptions struct {
	Call     string   // function to invoke after the top level ran; empty runs the top level only
	Args     []string // source-language literals passed to Call
	Stdout   io.Writer
	MaxSteps int
	Seed     int64
	Trace    *vm.Tracer
}

// RunResult is what RunFile observed.
type RunResult struct {
	Files  *source.FileSet
	Value  vm.Value // result of Call, none otherwise
	Called bool
}

// RunFile parses path and executes it in the VM.
func RunFile(ctx context.Context, path string, opts RunOptions) (*RunResult, error) {
	span := trace.BeginIn(trace.WithFile(ctx, path), trace.ScopeDriver, "run")
	defer span.End(path)

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, &StageError{Path: path, Stage: StageLoad, Err: err}
	}
	res := &RunResult{Files: fileSet, Value: vm.None()}
	prog, err := parser.Parse(fileSet, id)
	if err != nil {
		return res, err
	}
	args := make([]vm.Value, len(opts.Args))
	for i, raw := range opts.Args {
		v, err := ParseArg(raw)
		if err != nil {
			return res, fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = v
	}

	machine := vm.New(vm.Options{
		Stdout:   opts.Stdout,
		MaxSteps: opts.MaxSteps,
		Seed:     opts.Seed,
		Files:    fileSet,
		Trace:    opts.Trace,
	})
	if err := machine.Run(ctx, prog); err != nil {
		return res, err
	}
	if opts.Call == "" {
		return res, nil
	}
	v, err := machine.Call(opts.Call, args...)
	if err != nil {
		return res, err
	}
	res.Value = v
	res.Called = true
	return res, nil
}

// ParseArg evaluates a literal written in the program language: 42, -7,
// "text", b"\x01", true, none, [1, 2].
func ParseArg(raw string) (vm.Value, error) {
	prog, err := parser.ParseString("<arg>", "_ = "+raw+";")
	if err != nil {
		return vm.Value{}, fmt.Errorf("invalid literal %q", raw)
	}
	if len(prog.Items) != 1 || prog.Items[0].Kind != ast.StmtAssign {
		return vm.Value{}, fmt.Errorf("invalid literal %q", raw)
	}
	e := prog.Items[0].Data.(ast.AssignData).Value
	if !constant(e) {
		return vm.Value{}, fmt.Errorf("argument %q is not a constant", raw)
	}
	return vm.EvalExpr(e, nil)
}

// constant allows literals, lists of constants and unary minus.
func constant(e *ast.Expr) bool {
	switch e.Kind {
	case ast.ExprLiteral:
		return true
	case ast.ExprUnary:
		return constant(e.Data.(ast.UnaryData).Operand)
	case ast.ExprList:
		for _, el := range e.Data.(ast.ListData).Elems {
			if !constant(el) {
				return false
			}
		}
		return true
	}
	return false
}
