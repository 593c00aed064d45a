// Package pipeline selects target functions, runs the transforms over each
// of them on a worker pool and reassembles the program.
//
// Per function the order is fixed: encode, opaque, mba, cff. Masking runs
// last over the assembled program so synthetic names are renamed too.
package pipeline

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"shroud/internal/ast"
	"shroud/internal/encode"
	"shroud/internal/mask"
	"shroud/internal/namegen"
	"shroud/internal/trace"
	"shroud/internal/vm"
)

// Result is the outcome of a successful run.
type Result struct {
	Program *ast.Program
	Seed    int64           // seed actually used
	Helpers *encode.Helpers // nil when no helper was injected
	Masks   []mask.Entry
	Funcs   []FuncStats // in output order
	Elapsed time.Duration

	// Shadowed lists the builtins the program rebinds; non-empty means the
	// encode pass was skipped.
	Shadowed []string
}

// target is one extracted function together with its output position.
type target struct {
	item int // index in the input program
	fn   *ast.Function
}

// Run rewrites a copy of prog; prog itself is left untouched.
func Run(ctx context.Context, prog *ast.Program, req Request) (*Result, error) {
	started := time.Now()
	tracer := trace.FromContext(ctx)
	runSpan := trace.BeginIn(ctx, trace.ScopePass, "pipeline")
	ctx = trace.Within(ctx, runSpan)

	if req.Seed == 0 {
		req.Seed = RandomSeed()
	}
	out := ast.CloneProgram(prog)
	targets, err := selectTargets(out, req.Functions)
	if err != nil {
		runSpan.End("error")
		return nil, err
	}

	// Вселенная имён собирается до запуска воркеров и дальше только читается
	universe := namegen.Collect(out)
	universe.Add(vm.BuiltinNames()...)
	var shadowed []string
	if req.Passes.Has(PassEncode) {
		// декодирование вызывает len/byte/encode/decode по имени
		if shadowed = encode.Shadowed(out); len(shadowed) > 0 {
			req.Passes &^= PassSet(PassEncode)
			trace.Point(tracer, trace.ScopePass, "encode.skipped", runSpan.ID(), strings.Join(shadowed, ","), nil)
		}
	}
	var helpers *encode.Helpers
	if req.Passes.Has(PassEncode) {
		h := encode.NewHelpers(namegen.NewGen(universe))
		universe.Add(h.FromBytes, h.ToBytes)
		helpers = &h
	}

	stats := make([]FuncStats, len(targets))
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(targets))))
	for i, tg := range targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			st, err := transform(gctx, tg.fn, &req, rand.New(rand.NewSource(deriveSeed(req.Seed, i))), namegen.NewGen(universe), helpers)
			stats[i] = st
			return err
		})
	}
	if err := g.Wait(); err != nil {
		runSpan.End("error")
		return nil, err
	}

	needHelpers := false
	for _, st := range stats {
		if st.Encode.Changed() {
			needHelpers = true
		}
	}
	if !needHelpers {
		helpers = nil
	}
	out.Items = reassemble(out.Items, targets, helpers)

	res := &Result{Program: out, Seed: req.Seed, Helpers: helpers, Shadowed: shadowed, Funcs: stats}
	if req.Passes.Has(PassMask) {
		span := trace.Begin(tracer, trace.ScopePass, "mask", runSpan.ID())
		mctx := mask.NewContext(req.Mask)
		avoid := namegen.Collect(out)
		mctx.Avoid(avoid.Names()...)
		mctx.Avoid(vm.BuiltinNames()...)
		mask.Resolve(out, mctx)
		res.Masks = mctx.Entries()
		span.End(strconv.Itoa(len(res.Masks)) + " tokens")
	}
	res.Elapsed = time.Since(started)
	runSpan.WithExtra("functions", strconv.Itoa(len(targets))).End("ok")
	return res, nil
}

// selectTargets extracts the requested functions. Every definition of a
// requested name is taken, ordered by request and then by position.
func selectTargets(prog *ast.Program, names []string) ([]target, error) {
	var targets []target
	if len(names) == 0 {
		for i, it := range prog.Items {
			if it.Kind == ast.StmtFunc {
				targets = append(targets, target{item: i, fn: it.Data.(ast.FuncData).Func})
			}
		}
		return targets, nil
	}

	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		found := false
		for i, it := range prog.Items {
			if it.Kind != ast.StmtFunc {
				continue
			}
			if fn := it.Data.(ast.FuncData).Func; fn.Name == name {
				targets = append(targets, target{item: i, fn: fn})
				found = true
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &TargetNotFoundError{Missing: missing}
	}
	return targets, nil
}

// reassemble drops the extracted items and inserts helpers and rewritten
// functions right after the last remaining import.
func reassemble(items []*ast.Stmt, targets []target, helpers *encode.Helpers) []*ast.Stmt {
	extracted := make(map[int]bool, len(targets))
	for _, tg := range targets {
		extracted[tg.item] = true
	}
	rest := make([]*ast.Stmt, 0, len(items))
	for i, it := range items {
		if !extracted[i] {
			rest = append(rest, it)
		}
	}
	at := (&ast.Program{Items: rest}).LastImportIndex() + 1

	var inserted []*ast.Stmt
	if helpers != nil {
		inserted = append(inserted, helpers.Funcs()...)
	}
	for _, tg := range targets {
		inserted = append(inserted, ast.FuncStmt(tg.fn))
	}

	out := make([]*ast.Stmt, 0, len(rest)+len(inserted))
	out = append(out, rest[:at]...)
	out = append(out, inserted...)
	return append(out, rest[at:]...)
}

// deriveSeed gives every function position its own stream (splitmix64).
func deriveSeed(seed int64, position int) int64 {
	z := uint64(seed) + uint64(position+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// RandomSeed returns a non-zero seed from the system entropy source.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano() | 1
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
