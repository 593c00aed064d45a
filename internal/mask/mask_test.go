package mask

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"shroud/internal/ast"
	"shroud/internal/format"
	"shroud/internal/namegen"
	"shroud/internal/testkit"
	"shroud/internal/vm"
)

const program = `
import math;
import text.utf8;
from strings import upper, lower as lo;
count = 0;
fn bump(x: int) -> int {
    count = x + 1;
    return count;
}
fn shout(s: str) {
    return upper(s) + lo("!") + str(math.max(1, 2)) + str(text.utf8.valid(s));
}
fn total(n) {
    r = bump(n) + count;
    return [r, len("abc")];
}
`

func masked(t *testing.T, src string, opts Options) (*ast.Program, *ast.Program, *Context) {
	t.Helper()
	orig := testkit.MustParse(t, src)
	out := ast.CloneProgram(orig)
	ctx := NewContext(opts)
	Resolve(out, ctx)
	return orig, out, ctx
}

func TestResolvePreservesBehaviour(t *testing.T) {
	// function names are masked, so look the callee up through the table
	orig, out, ctx := masked(t, program, DefaultOptions())
	calls := map[string][]vm.Value{
		"bump":  {vm.MakeInt(-9)},
		"shout": {vm.MakeStr("hey")},
		"total": {vm.MakeInt(4)},
	}
	for fn, args := range calls {
		tok, ok := ctx.Lookup(Global, fn)
		require.True(t, ok, fn)
		want := testkit.Invoke(orig, fn, args...)
		got := testkit.Invoke(testkit.Reparse(t, out), tok, args...)
		require.NoError(t, want.Err)
		require.True(t, want.Same(got), "%s: %v vs %v", fn, want, got)
	}
}

func TestScopesAreSeparate(t *testing.T) {
	_, out, ctx := masked(t, program, DefaultOptions())
	text := format.Unparse(out)

	// count assigned inside bump is local there; total reads the global
	bumpLocal, ok := ctx.Lookup(Scope{Func: 4, Name: "bump"}, "count")
	require.True(t, ok)
	globalCount, ok := ctx.Lookup(Global, "count")
	require.True(t, ok)
	require.NotEqual(t, bumpLocal, globalCount)

	require.Contains(t, text, "import math as ")
	require.Contains(t, text, "import text as ")
	require.Contains(t, text, "from strings import upper as ")
	require.Contains(t, text, "lower as ")
	for _, kept := range []string{"len(", "str(", ".max(", ".utf8.valid("} {
		require.Contains(t, text, kept)
	}
	for _, gone := range []string{"bump", "shout", "count", "fn total"} {
		require.NotContains(t, text, gone)
	}
}

func TestTokensAreUniqueAndOrdered(t *testing.T) {
	_, _, ctx := masked(t, program, Options{Prefix: "m", Width: 3})
	entries := ctx.Entries()
	require.NotEmpty(t, entries)
	seen := map[string]bool{}
	for i, e := range entries {
		require.False(t, seen[e.Token], "token %s reused", e.Token)
		seen[e.Token] = true
		require.True(t, strings.HasPrefix(e.Token, "m"))
		require.Len(t, e.Token, 4)
		if i > 0 {
			require.Greater(t, e.Token, entries[i-1].Token)
		}
	}
	require.Equal(t, Entry{Scope: "<global>", Name: "math", Token: "m001"}, entries[0])
}

func TestTokensSkipExistingNames(t *testing.T) {
	src := `fn f(a) { return _0x0001 + a; }`
	prog := testkit.MustParse(t, src)
	ctx := NewContext(DefaultOptions())
	u := namegen.Collect(prog)
	for _, n := range []string{"f", "a", "_0x0001"} {
		require.True(t, u.Has(n))
	}
	ctx.Avoid("f", "a", "_0x0001")
	Resolve(prog, ctx)
	for _, e := range ctx.Entries() {
		require.NotEqual(t, "_0x0001", e.Token)
	}
	require.Contains(t, format.Unparse(prog), "_0x0001 +")
}

func TestSameNameInTwoFunctions(t *testing.T) {
	orig, out, ctx := masked(t, `
fn a(x) { y = x * 2; return y; }
fn b(x) { y = x + 1; return a(y); }
`, DefaultOptions())
	ax, _ := ctx.Lookup(Scope{Func: 0}, "x")
	bx, _ := ctx.Lookup(Scope{Func: 1}, "x")
	require.NotEqual(t, ax, bx)
	tok, _ := ctx.Lookup(Global, "b")
	want := testkit.Invoke(orig, "b", vm.MakeInt(5))
	got := testkit.Invoke(out, tok, vm.MakeInt(5))
	require.True(t, want.Same(got), "%v vs %v", want, got)
}
