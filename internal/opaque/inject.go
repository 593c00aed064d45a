package opaque

import (
	"math/rand"

	"shroud/internal/ast"
	"shroud/internal/namegen"
)

// Options bounds the generated code.
type Options struct {
	GuardIfs      bool    // combine each if test with a predicate
	IfProbability float64 // chance that a given if is guarded
	MinLeaves     int
	MaxLeaves     int
	MaxDepth      int // nesting of && / || nodes
	JunkMin       int
	JunkMax       int
	JunkDepth     int // nesting of fake conditionals inside junk
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		GuardIfs:      true,
		IfProbability: 1,
		MinLeaves:     3,
		MaxLeaves:     5,
		MaxDepth:      3,
		JunkMin:       3,
		JunkMax:       5,
		JunkDepth:     1,
	}
}

func (o Options) normalized() Options {
	if o.MinLeaves < 1 {
		o.MinLeaves = 1
	}
	if o.MaxLeaves < o.MinLeaves {
		o.MaxLeaves = o.MinLeaves
	}
	if o.MaxDepth < 1 {
		o.MaxDepth = 1
	}
	if o.JunkMin < 0 {
		o.JunkMin = 0
	}
	if o.JunkMax < o.JunkMin {
		o.JunkMax = o.JunkMin
	}
	if o.JunkDepth < 0 {
		o.JunkDepth = 0
	}
	return o
}

// Stats reports what Inject did to one function.
type Stats struct {
	Dummy   string // sentinel variable defined by the prologue
	Sink    string // sacrificial variable written by junk
	Returns int
	Ifs     int
	Leaves  int
}

// Inject rewrites fn in place. intVars lists variables known to hold ints at
// every statement; the sentinel is added to them.
func Inject(fn *ast.Function, rng *rand.Rand, names *namegen.Gen, intVars []string, opts Options) Stats {
	st := Stats{Dummy: names.Fresh("_v"), Sink: names.Fresh("_j")}
	vars := append([]string{st.Dummy}, intVars...)
	b := NewBuilder(rng, vars, opts)
	inj := injector{b: b, st: &st}

	body := inj.block(fn.Body)
	prologue := []*ast.Stmt{
		ast.AssignName(st.Dummy, ast.IntLit(1+rng.Int63n(1<<31))),
		ast.AssignName(st.Sink, ast.IntLit(0)),
	}
	fn.Body = append(prologue, body...)
	st.Leaves = b.leaves
	return st
}

type injector struct {
	b  *Builder
	st *Stats
}

func (in *injector) block(list []*ast.Stmt) []*ast.Stmt {
	for i, s := range list {
		list[i] = in.stmt(s)
	}
	return list
}

func (in *injector) stmt(s *ast.Stmt) *ast.Stmt {
	switch d := s.Data.(type) {
	case ast.ReturnData:
		in.st.Returns++
		junk := in.b.Junk(in.st.Sink, in.b.opts.JunkDepth)
		return ast.If(in.b.Predicate(), []*ast.Stmt{s}, junk)
	case ast.IfData:
		then := in.block(d.Then)
		els := in.block(d.Else)
		test := d.Test
		if in.b.opts.GuardIfs && in.b.rng.Float64() < in.b.opts.IfProbability {
			in.st.Ifs++
			test = ast.BoolOp(ast.BoolAnd, test, in.b.Predicate())
			els = append(in.b.Junk(in.st.Sink, in.b.opts.JunkDepth), els...)
		}
		s.Data = ast.IfData{Test: test, Then: then, Else: els}
		return s
	case ast.WhileData:
		s.Data = ast.WhileData{Test: d.Test, Body: in.block(d.Body)}
		return s
	default:
		return s
	}
}
