package cff

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/namegen"
	"shroud/internal/testkit"
	"shroud/internal/vm"
)

func flatten(t *testing.T, src, name string, seed int64, opts Options) (*ast.Program, *ast.Program, Stats, error) {
	t.Helper()
	orig := testkit.MustParse(t, src)
	out := ast.CloneProgram(orig)
	fn, _ := out.LookupFunc(name)
	st, err := Flatten(fn, rand.New(rand.NewSource(seed)), namegen.NewGen(namegen.Collect(out)), opts)
	return orig, out, st, err
}

const max2 = `
fn max2(a: int, b: int) -> int {
    if a > b {
        m = a;
    } else {
        m = b;
    }
    return m;
}
`

func TestFlattenMax2(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		orig, out, st, err := flatten(t, max2, "max2", seed, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if st.States != 4 || st.Locals != 1 {
			t.Fatalf("stats %+v", st)
		}
		testkit.Equivalent(t, orig, out, "max2", testkit.Ints([]int64{1, 2}, []int64{2, 1}, []int64{-3, -3})...)
	}
}

func TestFlattenShape(t *testing.T) {
	_, out, st, err := flatten(t, max2, "max2", 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	fn, _ := out.LookupFunc("max2")
	want := []ast.StmtKind{ast.StmtAssign, ast.StmtAssign, ast.StmtAssign, ast.StmtWhile, ast.StmtReturn}
	if len(fn.Body) != len(want) {
		t.Fatalf("body has %d statements:\n%s", len(fn.Body), format.Unparse(out))
	}
	for i, k := range want {
		if fn.Body[i].Kind != k {
			t.Fatalf("statement %d is %v, want %v", i, fn.Body[i].Kind, k)
		}
	}
	text := format.Unparse(out)
	// without jitter and shuffle ids are dense and the chain is in creation order
	for _, frag := range []string{
		"m = 0;",
		st.RetVar + " = none;",
		st.StateVar + " = 3;",
		"while " + st.StateVar + " != -1 {",
		"if " + st.StateVar + " == 0 {",
		"} else if " + st.StateVar + " == 3 {",
		"return " + st.RetVar + ";",
	} {
		if !strings.Contains(text, frag) {
			t.Errorf("missing %q in:\n%s", frag, text)
		}
	}
}

func TestIDsAreUniqueAndIncreasing(t *testing.T) {
	src := `
fn f(n: int) {
    x = 0;
    if n > 0 { if n > 10 { x = 2; } else { x = 1; } } else { x = -1; }
    print(x);
    pass;
    return x;
}`
	orig, out, _, err := flatten(t, src, "f", 3, Options{Jitter: 5, Shuffle: true})
	if err != nil {
		t.Fatal(err)
	}
	fn, _ := out.LookupFunc("f")
	loop := fn.Body[len(fn.Body)-2].Data.(ast.WhileData)
	seen := map[string]bool{}
	chain := loop.Body
	for len(chain) == 1 && chain[0].Kind == ast.StmtIf {
		d := chain[0].Data.(ast.IfData)
		id := format.Expr(d.Test.Data.(ast.CompareData).Right)
		if seen[id] || id == "-1" {
			t.Fatalf("state id %s reused or equal to the sentinel", id)
		}
		seen[id] = true
		chain = d.Else
	}
	if len(seen) != 9 {
		t.Fatalf("expected 9 states, got %d", len(seen))
	}
	testkit.Equivalent(t, orig, out, "f", testkit.Ints([]int64{0}, []int64{5}, []int64{50})...)
}

func TestLoopsStayAtomic(t *testing.T) {
	src := `
fn sum(n: int) {
    total = 0;
    i = 0;
    while i < n {
        i = i + 1;
        if i == 3 { continue; }
        if i > 8 { break; }
        if total > 100 { return total; }
        total = total + i;
    }
    return total;
}`
	orig, out, st, err := flatten(t, src, "sum", 2, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if st.Atomic != 1 {
		t.Fatalf("atomic = %d", st.Atomic)
	}
	testkit.Equivalent(t, orig, out, "sum", testkit.Ints([]int64{0}, []int64{4}, []int64{20}, []int64{1000})...)

	_, _, _, err = flatten(t, src, "sum", 2, Options{Strict: true})
	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) || unsupported.Kind != ast.StmtWhile {
		t.Fatalf("strict mode error = %v", err)
	}
}

func TestEmptyAndBareReturn(t *testing.T) {
	orig, out, st, err := flatten(t, `fn f() { } fn g(x) { if x { return; } print(x); }`, "g", 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if st.States != 3 {
		t.Fatalf("states = %d", st.States)
	}
	testkit.Equivalent(t, orig, out, "g", testkit.Ints([]int64{0}, []int64{1})...)

	orig, out, st, err = flatten(t, `fn f() { }`, "f", 1, DefaultOptions())
	if err != nil || st.States != 0 {
		t.Fatalf("empty body: %v %+v", err, st)
	}
	testkit.Equivalent(t, orig, out, "f", nil)
}

func TestSyntheticNamesAvoidUserNames(t *testing.T) {
	_, _, st, err := flatten(t, `fn f(_state) { _ret = _state; return _ret; }`, "f", 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if st.StateVar == "_state" || st.RetVar == "_ret" {
		t.Fatalf("synthetic names clash: %+v", st)
	}
}

// Flattening hoists every local to a zero initialiser, so a read that the
// original reaches before any assignment yields 0 instead of VM1001.
func TestUnassignedLocalReadsZero(t *testing.T) {
	src := `
fn pick(c: bool) -> int {
    if c {
        m = 5;
    }
    return m;
}
`
	orig, out, st, err := flatten(t, src, "pick", 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if st.Locals != 1 {
		t.Fatalf("stats %+v", st)
	}
	testkit.Equivalent(t, orig, out, "pick", []vm.Value{vm.MakeBool(true)})

	before := testkit.Invoke(orig, "pick", vm.MakeBool(false))
	var verr *vm.VMError
	if !errors.As(before.Err, &verr) || verr.Code != vm.PanicUnboundName {
		t.Fatalf("original: %v", before)
	}
	after := testkit.Invoke(testkit.Reparse(t, out), "pick", vm.MakeBool(false))
	if after.Err != nil || !after.Value.Equal(vm.MakeInt(0)) {
		t.Fatalf("flattened: %v", after)
	}
}
