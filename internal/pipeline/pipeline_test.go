package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/testkit"
	"shroud/internal/trace"
	"shroud/internal/vm"
)

const sample = `
import math;
from strings import upper;

limit = 100;

fn add(a: int, b: int) -> int {
    return a + b;
}

fn max2(a: int, b: int) -> int {
    if a > b {
        m = a;
    } else {
        m = b;
    }
    return m;
}

fn greet(s: str) -> str {
    return s;
}

fn shout(s: str, times: int) -> str {
    out = "";
    i = 0;
    while i < times {
        out = out + upper(s) + "!";
        i = i + 1;
    }
    if len(out) > limit {
        return "too long";
    }
    return out;
}

fn main() {
    print(add(3, 4), max2(9, 2), greet("hi"), shout("yo", 2), math.max(1, 5));
}
`

func run(t *testing.T, src string, req Request) (*ast.Program, *Result) {
	t.Helper()
	prog := testkit.MustParse(t, src)
	res, err := Run(context.Background(), prog, req)
	require.NoError(t, err)
	return prog, res
}

func seeded(seed int64) Request {
	req := DefaultRequest()
	req.Seed = seed
	return req
}

// call invokes a function of the rewritten program by its original name.
func call(t *testing.T, res *Result, name string, args ...vm.Value) testkit.Outcome {
	t.Helper()
	callee := name
	for _, m := range res.Masks {
		if m.Scope == "<global>" && m.Name == name {
			callee = m.Token
		}
	}
	return testkit.Invoke(testkit.Reparse(t, res.Program), callee, args...)
}

func TestEndToEndBehaviour(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		orig, res := run(t, sample, seeded(seed))

		sum := call(t, res, "add", vm.MakeInt(3), vm.MakeInt(4))
		require.NoError(t, sum.Err)
		require.Equal(t, "7", sum.Value.Repr())
		sum = call(t, res, "add", vm.MakeInt(-5), vm.MakeInt(10))
		require.Equal(t, "5", sum.Value.Repr())

		for _, tup := range [][2]int64{{1, 2}, {2, 1}, {-4, -4}} {
			got := call(t, res, "max2", vm.MakeInt(tup[0]), vm.MakeInt(tup[1]))
			want := testkit.Invoke(orig, "max2", vm.MakeInt(tup[0]), vm.MakeInt(tup[1]))
			require.True(t, want.Same(got), "max2%v: %v vs %v", tup, want, got)
		}

		hi := call(t, res, "greet", vm.MakeStr("hi"))
		require.NoError(t, hi.Err)
		require.True(t, hi.Value.Equal(vm.MakeStr("hi")), hi.String())

		for _, n := range []int64{0, 3, 40} {
			got := call(t, res, "shout", vm.MakeStr("ab"), vm.MakeInt(n))
			want := testkit.Invoke(orig, "shout", vm.MakeStr("ab"), vm.MakeInt(n))
			require.True(t, want.Same(got), "shout(%d): %v vs %v", n, want, got)
		}

		got := call(t, res, "main")
		want := testkit.Invoke(orig, "main")
		require.NoError(t, got.Err)
		require.Equal(t, want.Stdout, got.Stdout)
	}
}

func TestMissingTargets(t *testing.T) {
	prog := testkit.MustParse(t, `fn foo() { return 1; }`)
	req := seeded(1)
	req.Functions = []string{"foo", "bar"}
	_, err := Run(context.Background(), prog, req)
	var notFound *TargetNotFoundError
	require.True(t, errors.As(err, &notFound), "error %v", err)
	require.Equal(t, []string{"bar"}, notFound.Missing)

	req.Functions = []string{"zed", "foo", "bar", "zed"}
	_, err = Run(context.Background(), prog, req)
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, []string{"zed", "bar"}, notFound.Missing)
	require.Contains(t, err.Error(), `"zed", "bar"`)
}

func TestReinsertionOrder(t *testing.T) {
	req := seeded(3)
	req.Passes = PassSet(PassEncode)
	req.Functions = []string{"greet", "add"}
	orig, res := run(t, sample, req)
	require.NotNil(t, res.Helpers)

	var names []string
	for _, it := range res.Program.Items {
		if it.Kind == ast.StmtFunc {
			names = append(names, it.Data.(ast.FuncData).Func.Name)
		}
	}
	require.Equal(t, []string{"int_from_bytes", "bytes_from_int", "greet", "add", "max2", "shout", "main"}, names)
	// helpers and targets come right after the imports
	require.Equal(t, ast.StmtFromImport, res.Program.Items[1].Kind)
	require.Equal(t, ast.StmtFunc, res.Program.Items[2].Kind)
	require.Equal(t, ast.StmtAssign, res.Program.Items[6].Kind)

	testkit.Equivalent(t, orig, res.Program, "main", nil)
	// the input tree is not modified
	require.Equal(t, format.Unparse(testkit.MustParse(t, sample)), format.Unparse(orig))
}

func TestNoImportsInsertsAtStart(t *testing.T) {
	req := seeded(1)
	req.Passes = 0
	req.Functions = []string{"g"}
	_, res := run(t, "x = 1;\nfn f() { return 1; }\nfn g() { return 2; }\n", req)
	require.Nil(t, res.Helpers)
	require.Equal(t, ast.StmtFunc, res.Program.Items[0].Kind)
	require.Equal(t, "g", res.Program.Items[0].Data.(ast.FuncData).Func.Name)
}

func TestDeterministicAcrossJobs(t *testing.T) {
	req := seeded(99)
	req.Jobs = 1
	_, a := run(t, sample, req)
	req.Jobs = 8
	_, b := run(t, sample, req)
	require.Equal(t, format.Unparse(a.Program), format.Unparse(b.Program))

	_, c := run(t, sample, seeded(100))
	require.NotEqual(t, format.Unparse(a.Program), format.Unparse(c.Program))
}

func TestStrictMode(t *testing.T) {
	req := seeded(1)
	req.Strict = true
	req.Functions = []string{"shout"}
	_, err := Run(context.Background(), testkit.MustParse(t, sample), req)
	var unsupported *UnsupportedConstructError
	require.True(t, errors.As(err, &unsupported), "error %v", err)
	require.Equal(t, "shout", unsupported.Function)
	require.Equal(t, "While", unsupported.Construct)

	req.Functions = []string{"add", "max2"}
	_, err = Run(context.Background(), testkit.MustParse(t, sample), req)
	require.NoError(t, err)
}

func TestMaskingCoversSyntheticNames(t *testing.T) {
	_, res := run(t, sample, seeded(5))
	text := format.Unparse(res.Program)
	for _, gone := range []string{"_state", "_ret", "int_from_bytes", "fn add", "limit"} {
		require.NotContains(t, text, gone)
	}
	require.NotEmpty(t, res.Masks)
	require.Len(t, res.Funcs, 5)
}

func TestSeedZeroPicksOne(t *testing.T) {
	req := DefaultRequest()
	_, res := run(t, sample, req)
	require.NotZero(t, res.Seed)
}

func TestParsePasses(t *testing.T) {
	set, err := ParsePasses("mba, CFF")
	require.NoError(t, err)
	require.True(t, set.Has(PassMBA) && set.Has(PassCFF))
	require.False(t, set.Has(PassEncode))
	require.Equal(t, "mba,cff", set.String())

	set, err = ParsePasses("")
	require.NoError(t, err)
	require.Equal(t, AllPasses, set)

	_, err = ParsePasses("encode,rot13")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "rot13"))
}

func TestTraceSpans(t *testing.T) {
	ring := trace.NewRingTracer(4096, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	req := seeded(2)
	req.Functions = []string{"add"}
	_, err := Run(ctx, testkit.MustParse(t, sample), req)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, ev := range ring.Snapshot() {
		seen[ev.Scope.String()+":"+ev.Name] = true
	}
	for _, want := range []string{"pass:pipeline", "function:add", "pass:encode", "pass:opaque", "pass:mba", "pass:cff", "pass:mask", "node:mba.rewrites"} {
		require.True(t, seen[want], "missing trace event %s", want)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, testkit.MustParse(t, sample), seeded(1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestReboundBuiltinsDisableEncode(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"global function", `
fn len(x) { return 99; }
fn greet(s: str) -> str { return "hi " + s; }
fn main() { return greet("yo"); }
`, []string{"len"}},
		{"recursive decode", `
fn decode(x) { return x; }
fn greet(s: str) -> str { return "hi " + s; }
fn main() { return greet("yo"); }
`, []string{"decode"}},
		{"local assignment", `
fn greet(s: str) -> str {
    encode = 1;
    return s + "!" + str(encode);
}
fn main() { return greet("yo"); }
`, []string{"encode"}},
		{"parameter", `
fn greet(s: str, len) -> str { return "hi " + s; }
fn main() { return greet("yo", 3); }
`, []string{"len"}},
		{"import alias", `
import math as byte;
fn greet(s: str) -> str { return "hi " + s; }
fn main() { return greet("yo"); }
`, []string{"byte"}},
		{"from import alias", `
from strings import upper as decode;
from strings import upper as len;
fn greet(s: str) -> str { return decode("hi ") + s; }
fn main() { return greet("yo"); }
`, []string{"decode", "len"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := seeded(1)
			req.Passes = AllPasses &^ PassSet(PassMask)
			orig, res := run(t, tc.src, req)
			require.Equal(t, tc.want, res.Shadowed)
			require.Nil(t, res.Helpers)
			for _, st := range res.Funcs {
				require.False(t, st.Encode.Changed(), st.Name)
			}
			testkit.Equivalent(t, orig, res.Program, "main", nil)
		})
	}

	// без прохода encode переопределения ни на что не влияют
	req := seeded(1)
	req.Passes = PassSet(PassOpaque)
	_, res := run(t, cases[0].src, req)
	require.Nil(t, res.Shadowed)
}
