package opaque

import (
	"math/rand"

	"shroud/internal/ast"
)

type leaf struct {
	name   string
	twoVar bool
	build  func(b *Builder, v, w string) *ast.Expr
}

func bin(op ast.BinaryOp, l, r *ast.Expr) *ast.Expr { return ast.Binary(op, l, r) }
func eq(l, r *ast.Expr) *ast.Expr                   { return ast.Compare(ast.CmpEq, l, r) }
func inv(x *ast.Expr) *ast.Expr                     { return ast.Unary(ast.OpInvert, x) }
func name(n string) *ast.Expr                       { return ast.Name(n) }

var catalogue = []leaf{
	{name: "and-self", build: func(_ *Builder, v, _ string) *ast.Expr {
		return eq(bin(ast.OpBitAnd, name(v), name(v)), name(v))
	}},
	{name: "xor-self", build: func(_ *Builder, v, _ string) *ast.Expr {
		return eq(bin(ast.OpBitXor, name(v), name(v)), ast.IntLit(0))
	}},
	{name: "add-sub", build: func(b *Builder, v, _ string) *ast.Expr {
		k := b.constant()
		return eq(bin(ast.OpSub, bin(ast.OpAdd, name(v), ast.IntLit(k)), ast.IntLit(k)), name(v))
	}},
	{name: "mul-div", build: func(_ *Builder, v, _ string) *ast.Expr {
		return eq(bin(ast.OpDiv, bin(ast.OpMul, name(v), ast.IntLit(2)), ast.IntLit(2)), name(v))
	}},
	{name: "mask-split", build: func(b *Builder, v, _ string) *ast.Expr {
		m := b.mask()
		l := bin(ast.OpBitAnd, name(v), ast.IntLit(m))
		r := bin(ast.OpBitAnd, inv(name(v)), ast.IntLit(m))
		return eq(bin(ast.OpBitOr, l, r), ast.IntLit(m))
	}},
	{name: "mask-join", build: func(b *Builder, v, _ string) *ast.Expr {
		m := b.mask()
		l := bin(ast.OpBitAnd, name(v), ast.IntLit(m))
		r := bin(ast.OpBitAnd, name(v), inv(ast.IntLit(m)))
		return eq(bin(ast.OpBitOr, l, r), name(v))
	}},
	{name: "absorb", build: func(b *Builder, v, _ string) *ast.Expr {
		m := b.mask()
		return eq(bin(ast.OpBitOr, name(v), bin(ast.OpBitAnd, name(v), ast.IntLit(m))), name(v))
	}},
	{name: "add-sub-var", twoVar: true, build: func(_ *Builder, v, w string) *ast.Expr {
		return eq(bin(ast.OpSub, bin(ast.OpAdd, name(v), name(w)), name(w)), name(v))
	}},
	{name: "and-xor-var", twoVar: true, build: func(_ *Builder, v, w string) *ast.Expr {
		l := bin(ast.OpBitAnd, name(v), name(w))
		r := bin(ast.OpBitAnd, name(v), inv(name(w)))
		return eq(bin(ast.OpBitXor, l, r), name(v))
	}},
}

// LeafKinds returns the number of leaf shapes in the catalogue.
func LeafKinds() int { return len(catalogue) }

// Builder generates predicates and junk over a fixed set of int variables.
type Builder struct {
	rng    *rand.Rand
	vars   []string
	opts   Options
	leaves int
}

// NewBuilder returns a Builder drawing from rng. vars must not be empty.
func NewBuilder(rng *rand.Rand, vars []string, opts Options) *Builder {
	return &Builder{rng: rng, vars: vars, opts: opts.normalized()}
}

// Leaf builds the i-th catalogue shape. Two-variable shapes fall back to the
// same variable twice when only one variable is available.
func (b *Builder) Leaf(i int) *ast.Expr {
	l := catalogue[i]
	b.leaves++
	v := b.pick()
	w := v
	if l.twoVar {
		w = b.pick()
	}
	return l.build(b, v, w)
}

func (b *Builder) randomLeaf() *ast.Expr {
	n := len(catalogue)
	if len(b.vars) < 2 {
		// shapes over two distinct variables sit at the tail
		n -= 2
	}
	return b.Leaf(b.rng.Intn(n))
}

// Predicate builds a tree of MinLeaves..MaxLeaves leaves joined by random
// && and || nodes, at most MaxDepth levels deep.
func (b *Builder) Predicate() *ast.Expr {
	n := b.opts.MinLeaves + b.rng.Intn(b.opts.MaxLeaves-b.opts.MinLeaves+1)
	return b.tree(n, b.opts.MaxDepth)
}

func (b *Builder) tree(leaves, depth int) *ast.Expr {
	if leaves == 1 {
		return b.randomLeaf()
	}
	op := ast.BoolAnd
	if b.rng.Intn(2) == 1 {
		op = ast.BoolOr
	}
	if depth <= 1 {
		operands := make([]*ast.Expr, leaves)
		for i := range operands {
			operands[i] = b.randomLeaf()
		}
		return ast.BoolOp(op, operands...)
	}
	k := 1 + b.rng.Intn(leaves-1)
	return ast.BoolOp(op, b.tree(k, depth-1), b.tree(leaves-k, depth-1))
}

func (b *Builder) pick() string {
	return b.vars[b.rng.Intn(len(b.vars))]
}

// constant returns a small positive offset.
func (b *Builder) constant() int64 {
	return 1 + b.rng.Int63n(0xffff)
}

func (b *Builder) mask() int64 {
	return b.rng.Int63n(1 << 32)
}
