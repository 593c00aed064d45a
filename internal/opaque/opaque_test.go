package opaque

import (
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/namegen"
	"shroud/internal/testkit"
	"shroud/internal/vm"
)

func boundary() []*big.Int {
	two63 := new(big.Int).Lsh(big.NewInt(1), 63)
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	return []*big.Int{
		big.NewInt(0), big.NewInt(-1), big.NewInt(1),
		two63, new(big.Int).Neg(two63), new(big.Int).Sub(two63, big.NewInt(1)),
		two64, new(big.Int).Neg(two64), new(big.Int).Add(two64, big.NewInt(1)),
	}
}

func sample(rng *rand.Rand, i int) *big.Int {
	if b := boundary(); i < len(b) {
		return b[i]
	}
	v := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), 80))
	if rng.Intn(2) == 0 {
		v.Neg(v)
	}
	return v
}

func mustTrue(t *testing.T, e *ast.Expr, env map[string]vm.Value) {
	t.Helper()
	got, err := vm.EvalExpr(e, env)
	if err != nil {
		t.Fatalf("%s: %v", format.Expr(e), err)
	}
	if got.Kind != vm.VKBool || !got.Bool {
		t.Fatalf("%s is %s for %v", format.Expr(e), got.Repr(), env)
	}
}

func TestEveryLeafIsTrue(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for kind := 0; kind < LeafKinds(); kind++ {
		b := NewBuilder(rng, []string{"v", "w"}, DefaultOptions())
		for i := 0; i < 10000; i++ {
			env := map[string]vm.Value{
				"v": vm.MakeBigInt(sample(rng, i)),
				"w": vm.MakeBigInt(sample(rng, (i*7)%10000)),
			}
			mustTrue(t, b.Leaf(kind), env)
		}
	}
}

func TestPredicateTreesAreTrue(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	opts := DefaultOptions()
	b := NewBuilder(rng, []string{"v", "w", "x"}, opts)
	for i := 0; i < 500; i++ {
		p := b.Predicate()
		leaves := 0
		ast.InspectExpr(p, func(e *ast.Expr) bool {
			if e.Kind == ast.ExprCompare {
				leaves++
			}
			return true
		})
		if leaves < opts.MinLeaves || leaves > opts.MaxLeaves {
			t.Fatalf("predicate has %d leaves: %s", leaves, format.Expr(p))
		}
		for j := 0; j < 20; j++ {
			env := map[string]vm.Value{
				"v": vm.MakeBigInt(sample(rng, j)),
				"w": vm.MakeBigInt(sample(rng, j+3)),
				"x": vm.MakeBigInt(sample(rng, 100+j)),
			}
			mustTrue(t, p, env)
		}
	}
}

func TestSingleVariableAvoidsPairLeaves(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewSource(3)), []string{"only"}, DefaultOptions())
	for i := 0; i < 200; i++ {
		mustTrue(t, b.Predicate(), map[string]vm.Value{"only": vm.MakeInt(int64(i - 100))})
	}
}

func TestJunkNeverRaises(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	opts := DefaultOptions()
	opts.JunkDepth = 2
	b := NewBuilder(rng, []string{"v"}, opts)
	for i := 0; i < 200; i++ {
		fn := &ast.Function{Name: "j", Params: []ast.Param{{Name: "v"}}, Body: b.Junk("sink", opts.JunkDepth)}
		fn.Body = append(fn.Body, ast.Return(ast.BoolLit(true)))
		prog := &ast.Program{Items: []*ast.Stmt{ast.FuncStmt(fn)}}
		out := testkit.Invoke(prog, "j", vm.MakeBigInt(sample(rng, i)))
		if out.Err != nil {
			t.Fatalf("junk raised: %v\n%s", out.Err, format.Unparse(prog))
		}
	}
}

const fixture = `
fn classify(a: int, b: int, label: str) {
    total = 0;
    i = 0;
    while i < a {
        if i % 2 == 0 {
            total = total + b;
        } else if i % 3 == 0 {
            total = total - 1;
        } else {
            print(label, i);
        }
        i = i + 1;
    }
    if total > 10 {
        return total;
    }
    return [label, total];
}
`

func injectFixture(t *testing.T, seed int64) (*ast.Program, *ast.Program, Stats) {
	t.Helper()
	orig := testkit.MustParse(t, fixture)
	out := ast.CloneProgram(orig)
	fn, _ := out.LookupFunc("classify")
	names := namegen.NewGen(namegen.Collect(out))
	st := Inject(fn, rand.New(rand.NewSource(seed)), names, []string{"a", "b"}, DefaultOptions())
	return orig, out, st
}

func TestInjectPreservesBehaviour(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		orig, out, st := injectFixture(t, seed)
		if st.Returns != 2 || st.Ifs != 3 {
			t.Fatalf("seed %d: stats %+v", seed, st)
		}
		calls := [][]vm.Value{}
		for _, tup := range [][2]int64{{0, 0}, {5, 3}, {12, -4}, {20, 7}} {
			calls = append(calls, []vm.Value{vm.MakeInt(tup[0]), vm.MakeInt(tup[1]), vm.MakeStr("x")})
		}
		testkit.Equivalent(t, orig, out, "classify", calls...)
	}
}

func TestInjectShape(t *testing.T) {
	_, out, st := injectFixture(t, 9)
	fn, _ := out.LookupFunc("classify")
	if st.Dummy != "_v" || st.Sink != "_j" {
		t.Fatalf("synthetic names %q %q", st.Dummy, st.Sink)
	}
	text := format.Unparse(out)
	if !strings.HasPrefix(format.Expr(fn.Body[0].Data.(ast.AssignData).Target), "_v") {
		t.Fatalf("prologue missing:\n%s", text)
	}
	if !strings.Contains(text, "i % 2 == 0 && ") {
		t.Fatalf("if test must be combined, not replaced:\n%s", text)
	}
	if strings.Contains(text, "\n    return") {
		t.Fatalf("top-level return left unguarded:\n%s", text)
	}
}

func TestInjectIsDeterministic(t *testing.T) {
	_, a, _ := injectFixture(t, 42)
	_, b, _ := injectFixture(t, 42)
	if format.Unparse(a) != format.Unparse(b) {
		t.Fatal("same seed must give the same output")
	}
	_, c, _ := injectFixture(t, 43)
	if format.Unparse(a) == format.Unparse(c) {
		t.Fatal("different seeds should differ")
	}
}

func TestGuardIfsOff(t *testing.T) {
	orig := testkit.MustParse(t, fixture)
	fn, _ := orig.LookupFunc("classify")
	opts := DefaultOptions()
	opts.GuardIfs = false
	st := Inject(fn, rand.New(rand.NewSource(1)), namegen.NewGen(namegen.Collect(orig)), nil, opts)
	if st.Ifs != 0 || st.Returns != 2 {
		t.Fatalf("stats %+v", st)
	}
}
