package mba

import (
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/testkit"
	"shroud/internal/typeinfo"
	"shroud/internal/vm"
)

func operands(rng *rand.Rand) []*big.Int {
	two63 := new(big.Int).Lsh(big.NewInt(1), 63)
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	out := []*big.Int{
		big.NewInt(0), big.NewInt(-1), big.NewInt(1), big.NewInt(255),
		two63, new(big.Int).Neg(two63), new(big.Int).Sub(two63, big.NewInt(1)),
		two64, new(big.Int).Neg(two64), new(big.Int).Sub(two64, big.NewInt(1)),
	}
	for i := 0; i < 40; i++ {
		v := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), 70))
		if i%2 == 1 {
			v.Neg(v)
		}
		out = append(out, v)
	}
	return out
}

func TestIdentitiesAreExact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	vals := operands(rng)
	for _, op := range []ast.BinaryOp{ast.OpAdd, ast.OpSub} {
		ids := Identities(op)
		if len(ids) != 5 {
			t.Fatalf("%v: %d identities", op, len(ids))
		}
		for _, id := range ids {
			t.Run(id.Name, func(t *testing.T) {
				e := Apply(id, ast.Name("a"), ast.Name("b"), ast.Name("p"))
				for _, a := range vals {
					for _, b := range vals {
						p := vals[rng.Intn(len(vals))]
						env := map[string]vm.Value{"a": vm.MakeBigInt(a), "b": vm.MakeBigInt(b), "p": vm.MakeBigInt(p)}
						got, err := vm.EvalExpr(e, env)
						if err != nil {
							t.Fatal(err)
						}
						want := new(big.Int).Add(a, b)
						if op == ast.OpSub {
							want.Sub(a, b)
						}
						if got.Int.Cmp(want) != 0 {
							t.Fatalf("%s with a=%s b=%s p=%s: got %s want %s", format.Expr(e), a, b, p, got.Int, want)
						}
					}
				}
			})
		}
	}
}

func rewriteFixture(t *testing.T, src, fnName string, blinders []string, seed int64, opts Options) (*ast.Program, *ast.Program, Stats) {
	t.Helper()
	orig := testkit.MustParse(t, src)
	out := ast.CloneProgram(orig)
	fn, _ := out.LookupFunc(fnName)
	st := Rewrite(fn, typeinfo.Infer(fn), blinders, rand.New(rand.NewSource(seed)), opts)
	return orig, out, st
}

const arith = `
fn calc(a: int, b: int, s: str) {
    x = a + b;
    y = x - 3 + a * 2;
    z = s + "!";
    w = len(s) + 1;
    i = 0;
    while i < 3 {
        x = x - i;
        i = i + 1;
    }
    return [x, y, z, w];
}
`

func TestRewritePreservesBehaviour(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		orig, out, st := rewriteFixture(t, arith, "calc", []string{"a", "b"}, seed, DefaultOptions())
		if st.Rewrites < 5 {
			t.Fatalf("seed %d: only %d rewrites", seed, st.Rewrites)
		}
		calls := [][]vm.Value{}
		for _, tup := range [][2]int64{{0, 0}, {3, 4}, {-5, 10}, {1 << 62, -(1 << 62)}} {
			calls = append(calls, []vm.Value{vm.MakeInt(tup[0]), vm.MakeInt(tup[1]), vm.MakeStr("q")})
		}
		testkit.Equivalent(t, orig, out, "calc", calls...)
	}
}

func TestNonIntOperandsUntouched(t *testing.T) {
	_, out, _ := rewriteFixture(t, arith, "calc", nil, 3, DefaultOptions())
	text := format.Unparse(out)
	for _, keep := range []string{`z = s + "!";`, "w = len(s) + 1;"} {
		if !strings.Contains(text, keep) {
			t.Errorf("expected %q to survive:\n%s", keep, text)
		}
	}
	if strings.Contains(text, "x = a + b;") {
		t.Errorf("int addition was not rewritten:\n%s", text)
	}
}

func TestNoBlinderMeansNoBlinding(t *testing.T) {
	src := `fn f(a: int, b: int) { return a + b - a; }`
	for seed := int64(0); seed < 30; seed++ {
		_, out, _ := rewriteFixture(t, src, "f", nil, seed, DefaultOptions())
		fn, _ := out.LookupFunc("f")
		ast.InspectAllExprs(fn.Body, func(e *ast.Expr) bool {
			if n, ok := e.IdentName(); ok && n != "a" && n != "b" {
				t.Fatalf("unexpected name %q", n)
			}
			return true
		})
	}
}

func TestMaxNodesBoundsGrowth(t *testing.T) {
	src := `fn f(a: int) { return a + a + a + a + a + a + a + a + a + a; }`
	opts := DefaultOptions()
	opts.MaxNodes = 20
	orig, out, st := rewriteFixture(t, src, "f", []string{"a"}, 1, opts)
	if st.Skipped == 0 {
		t.Fatalf("expected skipped rewrites, stats %+v", st)
	}
	fn, _ := out.LookupFunc("f")
	if n := ast.CountNodes(fn.Body[0].Data.(ast.ReturnData).Value); n > 2000 {
		t.Fatalf("expression grew to %d nodes", n)
	}
	testkit.Equivalent(t, orig, out, "f", testkit.Ints([]int64{7}, []int64{-123456789})...)
}

func TestDepthOneRewritesOnce(t *testing.T) {
	opts := DefaultOptions()
	opts.Depth = 1
	opts.Blinding = false
	_, _, st := rewriteFixture(t, `fn f(a: int, b: int) { return a + b; }`, "f", nil, 1, opts)
	if st.Rewrites != 1 {
		t.Fatalf("rewrites = %d", st.Rewrites)
	}
	opts.Depth = 2
	_, _, st = rewriteFixture(t, `fn f(a: int, b: int) { return a + b; }`, "f", nil, 1, opts)
	if st.Rewrites < 2 {
		t.Fatalf("depth 2 must re-wrap the formula, rewrites = %d", st.Rewrites)
	}
}

func TestCallsAreNotDuplicated(t *testing.T) {
	_, out, st := rewriteFixture(t, `fn f(a: int) { x = g(a) + 1; return x; }`, "f", nil, 1, DefaultOptions())
	if st.Rewrites != 0 {
		t.Fatalf("rewrites = %d\n%s", st.Rewrites, format.Unparse(out))
	}
}
