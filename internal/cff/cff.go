// Package cff flattens the control flow of a function into a single
// dispatch loop.
//
// The body is cut into states. A Computation runs one statement and moves to
// a fixed successor, a Branch evaluates an if test and picks one of two
// successors, a Terminal stores the return value and selects the sentinel
// that stops the loop:
//
//	while state != -1 {
//	    if state == 0 { ... } else if state == 3 { ... } ...
//	}
//	return ret;
package cff

import (
	"fmt"
	"math/rand"

	"shroud/internal/ast"
	"shroud/internal/namegen"
	"shroud/internal/source"
)

// Sentinel is the state value that ends the dispatch loop.
const Sentinel = -1

// Kind tags a dispatch state.
type Kind uint8

const (
	Computation Kind = iota
	Branch
	Terminal
)

func (k Kind) String() string {
	switch k {
	case Computation:
		return "computation"
	case Branch:
		return "branch"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// State is one unit of the flattened body.
type State struct {
	ID   int
	Kind Kind
	Body []*ast.Stmt
}

// Options controls id allocation and layout.
type Options struct {
	Jitter  int  // ids grow by 1 + rand(Jitter)
	Shuffle bool // randomise the order of the dispatch chain
	Strict  bool // reject loops instead of keeping them atomic
}

// DefaultOptions returns the configured defaults.
func DefaultOptions() Options {
	return Options{Jitter: 7, Shuffle: true}
}

// UnsupportedError reports a statement that strict mode refuses to keep as
// an atomic state.
type UnsupportedError struct {
	Kind ast.StmtKind
	Span source.Span
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("cannot flatten %s statement at %s", e.Kind, e.Span)
}

// Stats describes one flattened function.
type Stats struct {
	StateVar string
	RetVar   string
	States   int
	Atomic   int // statements kept whole inside a Computation
	Locals   int // zero-initialised locals
}

type flattener struct {
	rng    *rand.Rand
	opts   Options
	state  string
	ret    string
	next   int
	states []State
	atomic int
}

// Flatten rewrites fn in place.
func Flatten(fn *ast.Function, rng *rand.Rand, names *namegen.Gen, opts Options) (Stats, error) {
	if opts.Jitter < 0 {
		opts.Jitter = 0
	}
	f := &flattener{
		rng:   rng,
		opts:  opts,
		state: names.Fresh("_state"),
		ret:   names.Fresh("_ret"),
	}
	entry, err := f.block(fn.Body, Sentinel)
	if err != nil {
		return Stats{}, err
	}

	locals := localNames(fn)
	body := make([]*ast.Stmt, 0, len(locals)+4)
	// состояния видят все локальные; чтение до присваивания даёт 0, а не VM1001
	for _, name := range locals {
		body = append(body, ast.AssignName(name, ast.IntLit(0)))
	}
	body = append(body,
		ast.AssignName(f.ret, ast.NoneLit()),
		ast.AssignName(f.state, ast.IntLit(int64(entry))),
		ast.While(ast.Compare(ast.CmpNe, ast.Name(f.state), ast.IntLit(Sentinel)), f.dispatch()),
		ast.Return(ast.Name(f.ret)),
	)
	fn.Body = body

	return Stats{
		StateVar: f.state,
		RetVar:   f.ret,
		States:   len(f.states),
		Atomic:   f.atomic,
		Locals:   len(locals),
	}, nil
}

// block lays out list right to left so that every statement knows its
// successor. It returns the entry state of the list, or next when empty.
func (f *flattener) block(list []*ast.Stmt, next int) (int, error) {
	for i := len(list) - 1; i >= 0; i-- {
		id, err := f.stmt(list[i], next)
		if err != nil {
			return 0, err
		}
		next = id
	}
	return next, nil
}

func (f *flattener) stmt(s *ast.Stmt, next int) (int, error) {
	switch d := s.Data.(type) {
	case ast.IfData:
		thenEntry, err := f.block(d.Then, next)
		if err != nil {
			return 0, err
		}
		elseEntry, err := f.block(d.Else, next)
		if err != nil {
			return 0, err
		}
		sw := ast.If(d.Test, []*ast.Stmt{f.jump(thenEntry)}, []*ast.Stmt{f.jump(elseEntry)})
		sw.Span = s.Span
		return f.add(Branch, sw), nil
	case ast.ReturnData:
		value := d.Value
		if value == nil {
			value = ast.NoneLit()
		}
		store := ast.AssignName(f.ret, value)
		store.Span = s.Span
		return f.add(Terminal, store, f.jump(Sentinel)), nil
	case ast.WhileData:
		if f.opts.Strict {
			return 0, &UnsupportedError{Kind: s.Kind, Span: s.Span}
		}
		f.atomic++
		return f.add(Computation, s, f.jump(next)), nil
	case ast.AssignData:
		return f.add(Computation, s, f.jump(next)), nil
	default:
		// pass, expression statements; break and continue only occur inside loops
		f.atomic++
		return f.add(Computation, s, f.jump(next)), nil
	}
}

func (f *flattener) add(kind Kind, body ...*ast.Stmt) int {
	id := f.next
	f.next += 1 + f.jitter()
	f.states = append(f.states, State{ID: id, Kind: kind, Body: body})
	return id
}

func (f *flattener) jitter() int {
	if f.opts.Jitter == 0 {
		return 0
	}
	return f.rng.Intn(f.opts.Jitter + 1)
}

func (f *flattener) jump(to int) *ast.Stmt {
	return ast.AssignName(f.state, ast.IntLit(int64(to)))
}

// dispatch builds the if / else if chain selecting the current state.
func (f *flattener) dispatch() []*ast.Stmt {
	order := append([]State(nil), f.states...)
	if f.opts.Shuffle {
		f.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	var chain []*ast.Stmt
	for i := len(order) - 1; i >= 0; i-- {
		st := order[i]
		test := ast.Compare(ast.CmpEq, ast.Name(f.state), ast.IntLit(int64(st.ID)))
		chain = []*ast.Stmt{ast.If(test, st.Body, chain)}
	}
	return chain
}

// localNames lists names assigned in fn that are not parameters, in order
// of first assignment.
func localNames(fn *ast.Function) []string {
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		seen[p.Name] = true
	}
	var out []string
	ast.InspectStmts(fn.Body, func(s *ast.Stmt) bool {
		if d, ok := s.Data.(ast.AssignData); ok {
			if name, isName := d.Target.IdentName(); isName && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		return true
	})
	return out
}
