package mba

import "shroud/internal/ast"

// Identity is one rewrite rule for a binary + or -.
// Build receives fresh copies for every occurrence of a, b and p.
type Identity struct {
	Name     string
	Op       ast.BinaryOp
	Blinding bool // needs a third always-bound int operand p
	Build    func(a, b, p func() *ast.Expr) *ast.Expr
}

func bin(op ast.BinaryOp, l, r *ast.Expr) *ast.Expr { return ast.Binary(op, l, r) }
func not(x *ast.Expr) *ast.Expr                     { return ast.Unary(ast.OpInvert, x) }
func two(x *ast.Expr) *ast.Expr                     { return bin(ast.OpMul, ast.IntLit(2), x) }

// All identities hold over unbounded two's-complement integers.
var catalogue = []Identity{
	// a + b
	{Name: "xor-and", Op: ast.OpAdd, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpAdd, bin(ast.OpBitXor, a(), b()), two(bin(ast.OpBitAnd, a(), b())))
	}},
	{Name: "sub-not", Op: ast.OpAdd, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpSub, bin(ast.OpSub, a(), not(b())), ast.IntLit(1))
	}},
	{Name: "or-and", Op: ast.OpAdd, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpAdd, bin(ast.OpBitOr, a(), b()), bin(ast.OpBitAnd, a(), b()))
	}},
	{Name: "or-xor", Op: ast.OpAdd, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpSub, two(bin(ast.OpBitOr, a(), b())), bin(ast.OpBitXor, a(), b()))
	}},
	{Name: "blind-xor-and", Op: ast.OpAdd, Blinding: true, Build: func(a, b, p func() *ast.Expr) *ast.Expr {
		l := func() *ast.Expr { return bin(ast.OpAdd, a(), p()) }
		r := func() *ast.Expr { return bin(ast.OpSub, b(), p()) }
		return bin(ast.OpAdd, bin(ast.OpBitXor, l(), r()), two(bin(ast.OpBitAnd, l(), r())))
	}},

	// a - b
	{Name: "xor-andnot", Op: ast.OpSub, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpSub, bin(ast.OpBitXor, a(), b()), two(bin(ast.OpBitAnd, not(a()), b())))
	}},
	{Name: "add-not", Op: ast.OpSub, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpAdd, bin(ast.OpAdd, a(), not(b())), ast.IntLit(1))
	}},
	{Name: "andnot-diff", Op: ast.OpSub, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpSub, bin(ast.OpBitAnd, a(), not(b())), bin(ast.OpBitAnd, not(a()), b()))
	}},
	{Name: "andnot-xor", Op: ast.OpSub, Build: func(a, b, _ func() *ast.Expr) *ast.Expr {
		return bin(ast.OpSub, two(bin(ast.OpBitAnd, a(), not(b()))), bin(ast.OpBitXor, a(), b()))
	}},
	{Name: "blind-shift", Op: ast.OpSub, Blinding: true, Build: func(a, b, p func() *ast.Expr) *ast.Expr {
		return bin(ast.OpSub, bin(ast.OpAdd, a(), p()), bin(ast.OpAdd, b(), p()))
	}},
}

// Identities returns the catalogue for op.
func Identities(op ast.BinaryOp) []Identity {
	var out []Identity
	for _, id := range catalogue {
		if id.Op == op {
			out = append(out, id)
		}
	}
	return out
}

// Apply instantiates id over copies of a, b and p. p may be nil for
// identities that do not blind.
func Apply(id Identity, a, b, p *ast.Expr) *ast.Expr {
	return apply(id, a, b, p, nil)
}

// apply records the root of every operand copy in copies when it is non-nil.
func apply(id Identity, a, b, p *ast.Expr, copies map[*ast.Expr]struct{}) *ast.Expr {
	return id.Build(cloner(a, copies), cloner(b, copies), cloner(p, copies))
}

func cloner(e *ast.Expr, copies map[*ast.Expr]struct{}) func() *ast.Expr {
	return func() *ast.Expr {
		c := ast.CloneExpr(e)
		if copies != nil {
			copies[c] = struct{}{}
		}
		return c
	}
}
