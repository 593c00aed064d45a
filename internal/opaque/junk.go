package opaque

import "shroud/internal/ast"

var junkOps = [...]ast.BinaryOp{
	ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
	ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor,
}

// Junk returns a chain of assignments to sink followed, while depth allows,
// by a fake conditional with junk on both sides. The first assignment only
// reads candidate variables, so sink never has to be bound beforehand and
// its value stays bounded inside loops.
func (b *Builder) Junk(sink string, depth int) []*ast.Stmt {
	n := b.opts.JunkMin + b.rng.Intn(b.opts.JunkMax-b.opts.JunkMin+1)
	out := make([]*ast.Stmt, 0, n+1)
	src := ast.Name(b.pick())
	for i := 0; i < n; i++ {
		op := junkOps[b.rng.Intn(len(junkOps))]
		// divisors are positive constants, everything else may be a var
		var rhs *ast.Expr
		if op == ast.OpDiv || op == ast.OpMod || b.rng.Intn(2) == 0 {
			rhs = ast.IntLit(b.constant())
		} else {
			rhs = ast.Name(b.pick())
		}
		out = append(out, ast.AssignName(sink, ast.Binary(op, src, rhs)))
		src = ast.Name(sink)
	}
	if depth > 0 {
		out = append(out, ast.If(b.Predicate(), b.Junk(sink, depth-1), b.Junk(sink, depth-1)))
	}
	return out
}
