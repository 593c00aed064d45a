// Package mba replaces integer additions and subtractions with equivalent
// mixed boolean-arithmetic formulas.
package mba

import (
	"math/rand"

	"shroud/internal/ast"
	"shroud/internal/typeinfo"
)

// Options bounds the rewrite.
type Options struct {
	Depth    int  // levels of re-wrapping inside a chosen formula
	MaxNodes int  // operand trees larger than this are left alone
	Blinding bool // allow identities with a third operand
}

// DefaultOptions returns the configured defaults.
func DefaultOptions() Options {
	return Options{Depth: 2, MaxNodes: 400, Blinding: true}
}

// Stats counts rewrites of one function.
type Stats struct {
	Rewrites int
	Skipped  int // int operations left alone because of MaxNodes
}

// Rewrite transforms every + and - in fn whose operands are pure ints.
// Blinders are int variables bound at every statement.
func Rewrite(fn *ast.Function, facts *typeinfo.Facts, blinders []string, rng *rand.Rand, opts Options) Stats {
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	rw := rewriter{facts: facts, blinders: blinders, rng: rng, opts: opts}
	ast.MapAllExprs(fn.Body, func(e *ast.Expr) *ast.Expr {
		return rw.expr(e, opts.Depth)
	})
	return rw.st
}

type rewriter struct {
	facts    *typeinfo.Facts
	blinders []string
	rng      *rand.Rand
	opts     Options
	st       Stats
}

func (rw *rewriter) candidate(e *ast.Expr) (ast.BinaryData, bool) {
	d, ok := e.Data.(ast.BinaryData)
	if !ok || (d.Op != ast.OpAdd && d.Op != ast.OpSub) {
		return d, false
	}
	if !rw.facts.IsInt(d.Left) || !rw.facts.IsInt(d.Right) {
		return d, false
	}
	// operands get duplicated, so they must be side-effect free
	if !typeinfo.IsPure(d.Left) || !typeinfo.IsPure(d.Right) {
		return d, false
	}
	return d, true
}

func (rw *rewriter) expr(e *ast.Expr, depth int) *ast.Expr {
	d, ok := rw.candidate(e)
	if !ok {
		return e
	}
	if ast.CountNodes(d.Left)+ast.CountNodes(d.Right) > rw.opts.MaxNodes {
		rw.st.Skipped++
		return e
	}
	ids := Identities(d.Op)
	if !rw.opts.Blinding || len(rw.blinders) == 0 {
		ids = plain(ids)
	}
	id := ids[rw.rng.Intn(len(ids))]
	var p *ast.Expr
	if id.Blinding {
		p = ast.Name(rw.blinders[rw.rng.Intn(len(rw.blinders))])
	}
	copies := make(map[*ast.Expr]struct{}, 8)
	out := apply(id, d.Left, d.Right, p, copies)
	out.Span = e.Span
	rw.st.Rewrites++
	if depth <= 1 {
		return out
	}
	return rw.inner(out, depth-1, copies)
}

// inner re-wraps the + and - nodes the formula itself introduced. Operand
// copies are left as they are; they were rewritten before the formula was
// built.
func (rw *rewriter) inner(e *ast.Expr, depth int, copies map[*ast.Expr]struct{}) *ast.Expr {
	if _, isCopy := copies[e]; isCopy {
		return e
	}
	switch d := e.Data.(type) {
	case ast.UnaryData:
		e.Data = ast.UnaryData{Op: d.Op, Operand: rw.inner(d.Operand, depth, copies)}
	case ast.BinaryData:
		e.Data = ast.BinaryData{Op: d.Op, Left: rw.inner(d.Left, depth, copies), Right: rw.inner(d.Right, depth, copies)}
		if d.Op == ast.OpAdd || d.Op == ast.OpSub {
			return rw.expr(e, depth)
		}
	}
	return e
}

func plain(ids []Identity) []Identity {
	out := ids[:0:0]
	for _, id := range ids {
		if !id.Blinding {
			out = append(out, id)
		}
	}
	return out
}
