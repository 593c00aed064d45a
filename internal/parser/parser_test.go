package parser

import (
	"errors"
	"math/big"
	"testing"

	"shroud/internal/ast"
	"shroud/internal/diag"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseString("test.shr", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func parseErrCode(t *testing.T, src string) diag.Code {
	t.Helper()
	_, err := ParseString("test.shr", src)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError for %q, got %v", src, err)
	}
	return perr.First.Code
}

func onlyExpr(t *testing.T, src string) *ast.Expr {
	t.Helper()
	prog := mustParse(t, src+";")
	if len(prog.Items) != 1 || prog.Items[0].Kind != ast.StmtExpr {
		t.Fatalf("expected one expression statement, got %d items", len(prog.Items))
	}
	return prog.Items[0].Data.(ast.ExprStmtData).Expr
}

func TestPrecedence(t *testing.T) {
	e := onlyExpr(t, "a + b * c")
	bin := e.Data.(ast.BinaryData)
	if bin.Op != ast.OpAdd {
		t.Fatalf("root op = %v, want +", bin.Op)
	}
	if r := bin.Right.Data.(ast.BinaryData); r.Op != ast.OpMul {
		t.Fatalf("right op = %v, want *", r.Op)
	}

	e = onlyExpr(t, "a - b - c")
	bin = e.Data.(ast.BinaryData)
	if bin.Left.Kind != ast.ExprBinary || bin.Right.Kind != ast.ExprIdent {
		t.Fatalf("subtraction must be left associative")
	}

	e = onlyExpr(t, "a & b == c")
	if e.Kind != ast.ExprCompare || e.Data.(ast.CompareData).Left.Kind != ast.ExprBinary {
		t.Fatalf("& binds tighter than ==, got %v", e.Kind)
	}

	e = onlyExpr(t, "a | b ^ c & d")
	if e.Data.(ast.BinaryData).Op != ast.OpBitOr {
		t.Fatalf("| must be the root")
	}
}

func TestBoolOpIsNary(t *testing.T) {
	e := onlyExpr(t, "a && b && c || d")
	or := e.Data.(ast.BoolOpData)
	if or.Op != ast.BoolOr || len(or.Operands) != 2 {
		t.Fatalf("expected || with 2 operands, got %v/%d", or.Op, len(or.Operands))
	}
	and := or.Operands[0].Data.(ast.BoolOpData)
	if and.Op != ast.BoolAnd || len(and.Operands) != 3 {
		t.Fatalf("expected && with 3 operands, got %v/%d", and.Op, len(and.Operands))
	}

	e = onlyExpr(t, "(a && b) && c")
	outer := e.Data.(ast.BoolOpData)
	if len(outer.Operands) != 2 || outer.Operands[0].Kind != ast.ExprBoolOp {
		t.Fatalf("parenthesised group must stay nested")
	}
}

func TestNegativeLiteralFolds(t *testing.T) {
	e := onlyExpr(t, "-42")
	lit, ok := e.Literal()
	if !ok || lit.Int.Cmp(big.NewInt(-42)) != 0 {
		t.Fatalf("expected literal -42, got %v", e.Kind)
	}
	e = onlyExpr(t, "-x")
	if e.Kind != ast.ExprUnary {
		t.Fatalf("expected unary minus on name")
	}
	e = onlyExpr(t, "~-3")
	un := e.Data.(ast.UnaryData)
	if un.Op != ast.OpInvert || un.Operand.Kind != ast.ExprLiteral {
		t.Fatalf("expected ~ over folded literal")
	}
}

func TestIntLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"007", 7},
		{"1_000", 1000},
		{"0xff", 255},
		{"0b1010", 10},
		{"0o17", 15},
	}
	for _, tt := range tests {
		lit, ok := onlyExpr(t, tt.src).Literal()
		if !ok || lit.Int.Cmp(big.NewInt(tt.want)) != 0 {
			t.Errorf("%s: got %v, want %d", tt.src, lit.Int, tt.want)
		}
	}
	huge := onlyExpr(t, "123456789012345678901234567890")
	lit, _ := huge.Literal()
	if lit.Int.String() != "123456789012345678901234567890" {
		t.Errorf("big literal lost precision: %s", lit.Int)
	}
}

func TestStringAndBytesLiterals(t *testing.T) {
	lit, _ := onlyExpr(t, `"a\tb\u{e9}"`).Literal()
	if lit.Kind != ast.LitStr || string(lit.Bytes) != "a\tbé" {
		t.Fatalf("string literal = %q", lit.Bytes)
	}
	lit, _ = onlyExpr(t, `b"\x00\xff"`).Literal()
	if lit.Kind != ast.LitBytes || len(lit.Bytes) != 2 || lit.Bytes[1] != 0xff {
		t.Fatalf("bytes literal = %v", lit.Bytes)
	}
}

func TestPostfixChain(t *testing.T) {
	e := onlyExpr(t, "m.f(x, 1)[0]")
	idx := e.Data.(ast.IndexData)
	call := idx.Object.Data.(ast.CallData)
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	attr := call.Callee.Data.(ast.AttrData)
	if attr.Name != "f" {
		t.Fatalf("attr = %s", attr.Name)
	}
	list := onlyExpr(t, "[1, 2, 3,]").Data.(ast.ListData)
	if len(list.Elems) != 3 {
		t.Fatalf("list elems = %d", len(list.Elems))
	}
}

func TestFunctionAndImports(t *testing.T) {
	prog := mustParse(t, `
import os.path as p;
import a.b;
from m.n import x as y, z;

fn f(a: int, b, c: str) -> bytes {
    x = a + 1;
    while x < 10 {
        if x == 3 { break; } else if x == 4 { continue; } else { pass; }
        x += 1;
    }
    return b;
}
`)
	if len(prog.Items) != 4 {
		t.Fatalf("items = %d", len(prog.Items))
	}
	imp := prog.Items[0].Data.(ast.ImportData)
	if imp.Binding() != "p" || len(imp.Path) != 2 {
		t.Fatalf("import = %+v", imp)
	}
	if b := prog.Items[1].Data.(ast.ImportData).Binding(); b != "a" {
		t.Fatalf("import a.b binds %s", b)
	}
	from := prog.Items[2].Data.(ast.FromImportData)
	if len(from.Names) != 2 || from.Names[0].Binding() != "y" || from.Names[1].Binding() != "z" {
		t.Fatalf("from import = %+v", from)
	}

	fn, idx := prog.LookupFunc("f")
	if fn == nil || idx != 3 {
		t.Fatalf("function not found")
	}
	if fn.Params[0].Type() != ast.TypeInt || fn.Params[1].Type() != ast.TypeUnknown || fn.ReturnType() != ast.TypeBytes {
		t.Fatalf("annotations lost: %+v -> %s", fn.Params, fn.Returns)
	}
	loop := fn.Body[1].Data.(ast.WhileData)
	if len(loop.Body) != 2 {
		t.Fatalf("while body = %d", len(loop.Body))
	}
	chain := loop.Body[0].Data.(ast.IfData)
	if len(chain.Else) != 1 || chain.Else[0].Kind != ast.StmtIf {
		t.Fatalf("else if must nest an If")
	}
}

func TestAugmentedAssignmentDesugars(t *testing.T) {
	prog := mustParse(t, "x <<= 2; xs[0] -= y;")
	a := prog.Items[0].Data.(ast.AssignData)
	bin := a.Value.Data.(ast.BinaryData)
	if bin.Op != ast.OpShl || bin.Left.Kind != ast.ExprIdent {
		t.Fatalf("x <<= 2 desugared to %v", bin.Op)
	}
	a = prog.Items[1].Data.(ast.AssignData)
	if a.Target.Kind != ast.ExprIndex || a.Value.Data.(ast.BinaryData).Left.Kind != ast.ExprIndex {
		t.Fatalf("index augmented assignment not desugared")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"missing semicolon", "x = 1", diag.SynExpectSemicolon},
		{"bad target", "f() = 1;", diag.SynInvalidTarget},
		{"complex augmented", "xs[f()] += 1;", diag.SynInvalidTarget},
		{"nested fn", "fn f() { fn g() { } }", diag.SynNestedFn},
		{"duplicate param", "fn f(a, a) { }", diag.SynDuplicateParam},
		{"import in fn", "fn f() { import os; }", diag.SynUnexpectedTopOnly},
		{"break outside loop", "break;", diag.SynUnexpectedToken},
		{"return outside fn", "return 1;", diag.SynUnexpectedToken},
		{"unclosed paren", "x = (1 + 2;", diag.SynUnclosedParen},
		{"unclosed brace", "fn f() { x = 1;", diag.SynUnclosedBrace},
		{"missing expression", "x = ;", diag.SynExpectExpression},
		{"bad module path", "import 1;", diag.SynBadModulePath},
		{"lexer error", "x = $;", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseErrCode(t, tt.src); got != tt.want {
				t.Errorf("code = %s, want %s", got.ID(), tt.want.ID())
			}
		})
	}
}

func TestRecoveryCollectsSeveralErrors(t *testing.T) {
	_, err := ParseString("test.shr", "x = ;\ny = 2;\nz = ;\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", perr.Bag.Len())
	}
	if perr.Pos.Line != 1 || perr.Pos.Col != 5 {
		t.Fatalf("first error at %d:%d", perr.Pos.Line, perr.Pos.Col)
	}
}

func TestEmptyProgram(t *testing.T) {
	prog := mustParse(t, "  // nothing here\n/* still nothing */")
	if len(prog.Items) != 0 {
		t.Fatalf("expected empty program")
	}
}
