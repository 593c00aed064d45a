package vm_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"shroud/internal/ast"
	"shroud/internal/parser"
	"shroud/internal/vm"
)

func run(t *testing.T, src string) (*vm.VM, string) {
	t.Helper()
	prog, err := parser.ParseString("vm.shr", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	m := vm.New(vm.Options{Stdout: &out, Seed: 1})
	if err := m.Run(context.Background(), prog); err != nil {
		t.Fatalf("run: %v", err)
	}
	return m, out.String()
}

func runErr(t *testing.T, src string) *vm.VMError {
	t.Helper()
	prog, err := parser.ParseString("vm.shr", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = vm.New(vm.Options{MaxSteps: 10_000}).Run(context.Background(), prog)
	var vmErr *vm.VMError
	if !errors.As(err, &vmErr) {
		t.Fatalf("expected VMError, got %v", err)
	}
	return vmErr
}

func TestPrintAndArithmetic(t *testing.T) {
	_, out := run(t, `
x = 7 / 2;
y = -7 / 2;
z = -7 % 3;
w = 7 % -3;
print(x, y, z, w);
print(~5, -1 & 0xff, 1 << 70, -9 >> 1);
print("a" + "b", b"x" + b"\x00", [1] + [2], "ab" * 2);
`)
	want := "3 -4 2 -2\n-6 255 1180591620717411303424 -5\nab b\"x\\0\" [1, 2] abab\n"
	if out != want {
		t.Fatalf("output:\n%q\nwant:\n%q", out, want)
	}
}

func TestFunctionsAndScoping(t *testing.T) {
	m, out := run(t, `
g = 10;
fn add(a: int, b: int) -> int { return a + b; }
fn readg() { return g; }
fn shadow() { g = 1; return g; }
fn fact(n) { if n <= 1 { return 1; } return n * fact(n - 1); }
print(add(3, 4), readg(), shadow(), g, fact(20));
`)
	if out != "7 10 1 10 2432902008176640000\n" {
		t.Fatalf("output %q", out)
	}
	res, err := m.Call("add", vm.MakeInt(-5), vm.MakeInt(10))
	if err != nil || res.Int.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("add(-5, 10) = %v, %v", res, err)
	}
}

func TestLoopsAndLists(t *testing.T) {
	_, out := run(t, `
xs = [];
i = 0;
while true {
    i += 1;
    if i % 2 == 0 { continue; }
    if i > 9 { break; }
    push(xs, i);
}
xs[0] = 100;
print(xs, len(xs), xs[-1], min(xs), max(3, 8, 1));
`)
	if out != "[100, 3, 5, 7, 9] 5 9 3 8\n" {
		t.Fatalf("output %q", out)
	}
}

func TestStringsAndBytes(t *testing.T) {
	_, out := run(t, `
s = "héllo";
b = encode(s);
print(len(s), len(b), s[1], b[0], decode(b) == s, byte(65), type(b));
print(str(12) + "!", int("-42") + 1, bool(""), "a" < "b", b"\x01" > b"\x00");
`)
	if out != "5 6 é 104 true b\"A\" bytes\n12! -41 false true true\n" {
		t.Fatalf("output %q", out)
	}
}

func TestModules(t *testing.T) {
	_, out := run(t, `
import math;
import text.utf8 as u;
import text.utf8;
from strings import upper as up, nfc;
print(math.pow(2, 10), math.gcd(-12, 18), up("ab"), u.valid(b"\xff"), text.utf8.runes("añ"));
print(nfc("cafe\u{301}") == "caf\u{e9}");
`)
	if out != "1024 6 AB false 2\ntrue\n" {
		t.Fatalf("output %q", out)
	}
}

func TestRandomIsSeeded(t *testing.T) {
	src := `import random; print(random.randint(1, 1000000), random.randint(1, 1000000));`
	_, a := run(t, src)
	_, b := run(t, src)
	if a != b {
		t.Fatalf("same seed produced %q and %q", a, b)
	}
}

func TestShortCircuit(t *testing.T) {
	_, out := run(t, `
fn boom() { return 1 / 0; }
print(false && boom(), true || boom(), 1 && 2, !0);
`)
	if out != "false true true true\n" {
		t.Fatalf("output %q", out)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		code vm.PanicCode
	}{
		{"x = 1 / 0;", vm.PanicDivisionByZero},
		{"x = y;", vm.PanicUnboundName},
		{"fn f() { x = x + 1; } f();", vm.PanicUnboundName},
		{"x = 1 + \"a\";", vm.PanicTypeMismatch},
		{"x = [1][3];", vm.PanicOutOfBounds},
		{"fn f(a) { return a; } f();", vm.PanicBadCall},
		{"import nosuch;", vm.PanicUnknownModule},
		{"while true { pass; }", vm.PanicStepLimit},
		{"fn f() { return f(); } f();", vm.PanicCallDepth},
		{"assert(1 == 2, \"nope\");", vm.PanicAssert},
		{"x = byte(256);", vm.PanicBadValue},
	}
	for _, tt := range tests {
		if e := runErr(t, tt.src); e.Code != tt.code {
			t.Errorf("%s: code %s, want %s (%s)", tt.src, e.Code, tt.code, e.Message)
		}
	}
}

func TestBacktrace(t *testing.T) {
	e := runErr(t, "fn inner() { return 1 / 0; }\nfn outer() { return inner(); }\nouter();")
	if len(e.Backtrace) != 3 || e.Backtrace[0].FuncName != "inner" || e.Backtrace[1].FuncName != "outer" {
		t.Fatalf("backtrace %+v", e.Backtrace)
	}
}

func TestCancelledContext(t *testing.T) {
	prog, err := parser.ParseString("loop.shr", "while true { pass; }")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = vm.New(vm.Options{MaxSteps: -1}).Run(ctx, prog)
	var vmErr *vm.VMError
	if !errors.As(err, &vmErr) || vmErr.Code != vm.PanicCancelled {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestEvalExpr(t *testing.T) {
	e := ast.Compare(ast.CmpEq,
		ast.Binary(ast.OpBitOr, ast.Binary(ast.OpBitAnd, ast.Name("v"), ast.IntLit(12)), ast.Binary(ast.OpBitAnd, ast.Name("v"), ast.Unary(ast.OpInvert, ast.IntLit(12)))),
		ast.Name("v"))
	for _, v := range []int64{0, -1, 42, -1 << 62} {
		res, err := vm.EvalExpr(e, map[string]vm.Value{"v": vm.MakeInt(v)})
		if err != nil || !res.Truthy() {
			t.Fatalf("v=%d: %v %v", v, res, err)
		}
	}
}

func TestTracer(t *testing.T) {
	prog, err := parser.ParseString("t.shr", "x = 1;\nfn f() { return x; }\ny = f();")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	m := vm.New(vm.Options{Trace: vm.NewTracer(&buf)})
	if err := m.Run(context.Background(), prog); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[depth=1] f Return") {
		t.Fatalf("trace:\n%s", buf.String())
	}
}
