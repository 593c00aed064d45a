package testkit

import (
	"testing"

	"shroud/internal/parser"
	"shroud/internal/source"
	"shroud/internal/vm"
)

func TestSpanInvariantsOnParsedFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("spans.shr", []byte("import math;\nx = 1;\nfn f(a) { return a; }\n"))
	prog, err := parser.Parse(fs, id)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckSpanInvariants(prog, fs.Get(id)); err != nil {
		t.Fatal(err)
	}
}

func TestOutcomeComparison(t *testing.T) {
	a := MustParse(t, `fn f(x) { print(x); return x * 2; }`)
	b := MustParse(t, `fn f(x) { print(x); return x + x; }`)
	Equivalent(t, a, b, "f", Ints([]int64{3}, []int64{-7})...)

	c := MustParse(t, `fn f(x) { return x + 1; }`)
	if Invoke(a, "f", vm.MakeInt(2)).Same(Invoke(c, "f", vm.MakeInt(2))) {
		t.Fatal("different stdout must not compare equal")
	}
	boom := Invoke(MustParse(t, `fn f(x) { return x / 0; }`), "f", vm.MakeInt(1))
	if boom.Err == nil || !boom.Same(boom) {
		t.Fatalf("division by zero outcome = %v", boom)
	}
}
