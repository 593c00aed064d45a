// Package testkit holds helpers shared by the pass tests: parsing fixtures,
// running programs on the VM and comparing an original with its rewrite.
package testkit

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/parser"
	"shroud/internal/vm"
)

// MustParse parses src or fails the test.
func MustParse(tb testing.TB, src string) *ast.Program {
	tb.Helper()
	prog, err := parser.ParseString("fixture.shr", src)
	if err != nil {
		tb.Fatalf("parse fixture: %v", err)
	}
	return prog
}

// Reparse prints prog and parses it back, failing when the printed text is
// not valid source.
func Reparse(tb testing.TB, prog *ast.Program) *ast.Program {
	tb.Helper()
	text := format.Unparse(prog)
	out, err := parser.ParseString("reparsed.shr", text)
	if err != nil {
		tb.Fatalf("rewritten program does not parse: %v\n%s", err, text)
	}
	return out
}

// Outcome is the observable result of one call.
type Outcome struct {
	Value  vm.Value
	Stdout string
	Err    error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("error(%v) stdout=%q", o.Err, o.Stdout)
	}
	return fmt.Sprintf("%s stdout=%q", o.Value.Repr(), o.Stdout)
}

// Same reports whether two outcomes are indistinguishable to a caller.
// Errors only need to agree on presence and code.
func (o Outcome) Same(other Outcome) bool {
	if (o.Err == nil) != (other.Err == nil) {
		return false
	}
	if o.Stdout != other.Stdout {
		return false
	}
	if o.Err != nil {
		return errorCode(o.Err) == errorCode(other.Err)
	}
	return o.Value.Equal(other.Value)
}

func errorCode(err error) vm.PanicCode {
	if e, ok := err.(*vm.VMError); ok {
		return e.Code
	}
	return 0
}

// Invoke runs the top level of prog and then calls fn with args.
func Invoke(prog *ast.Program, fn string, args ...vm.Value) Outcome {
	var out bytes.Buffer
	m := vm.New(vm.Options{Stdout: &out, Seed: 1})
	if err := m.Run(context.Background(), prog); err != nil {
		return Outcome{Stdout: out.String(), Err: err}
	}
	v, err := m.Call(fn, args...)
	return Outcome{Value: v, Stdout: out.String(), Err: err}
}

// Equivalent calls fn in both programs with every argument tuple and fails
// the test on the first observable difference. The rewrite is also printed
// and reparsed, so the comparison runs on what a user would get on disk.
func Equivalent(tb testing.TB, orig, rewritten *ast.Program, fn string, calls ...[]vm.Value) {
	tb.Helper()
	reparsed := Reparse(tb, rewritten)
	for _, args := range calls {
		want := Invoke(orig, fn, args...)
		got := Invoke(reparsed, fn, args...)
		if !want.Same(got) {
			tb.Fatalf("%s(%s): original %s, rewritten %s\n%s", fn, reprArgs(args), want, got, format.Unparse(rewritten))
		}
	}
}

// Ints builds argument tuples of int values.
func Ints(tuples ...[]int64) [][]vm.Value {
	out := make([][]vm.Value, len(tuples))
	for i, tup := range tuples {
		for _, v := range tup {
			out[i] = append(out[i], vm.MakeInt(v))
		}
	}
	return out
}

func reprArgs(args []vm.Value) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Repr())
	}
	return b.String()
}
