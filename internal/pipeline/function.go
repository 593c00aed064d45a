package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"shroud/internal/ast"
	"shroud/internal/cff"
	"shroud/internal/encode"
	"shroud/internal/mba"
	"shroud/internal/namegen"
	"shroud/internal/opaque"
	"shroud/internal/trace"
	"shroud/internal/typeinfo"
)

// FuncStats reports what the transforms did to one function.
type FuncStats struct {
	Name    string
	Encode  encode.Result
	Opaque  opaque.Stats
	MBA     mba.Stats
	CFF     cff.Stats
	Elapsed time.Duration
}

func transform(ctx context.Context, fn *ast.Function, req *Request, rng *rand.Rand, names *namegen.Gen, helpers *encode.Helpers) (FuncStats, error) {
	st := FuncStats{Name: fn.Name}
	started := time.Now()
	tracer := trace.FromContext(ctx)
	fnSpan := trace.BeginIn(ctx, trace.ScopeFunction, fn.Name)

	pass := func(name string, run func() (string, error)) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		span := trace.Begin(tracer, trace.ScopePass, name, fnSpan.ID())
		detail, err := run()
		if err != nil {
			span.EndErr(err)
			return err
		}
		span.End(detail)
		return nil
	}

	// имена, которые гарантированно связаны целым значением в каждом операторе
	var bound []string
	err := func() error {
		if req.Passes.Has(PassEncode) && helpers != nil {
			if err := pass("encode", func() (string, error) {
				st.Encode = encode.Function(fn, *helpers)
				bound = append(bound, st.Encode.Params...)
				return strconv.Itoa(len(st.Encode.Params)) + " params, " + strconv.Itoa(st.Encode.Literals) + " literals", nil
			}); err != nil {
				return err
			}
		}
		if req.Passes.Has(PassOpaque) {
			if err := pass("opaque", func() (string, error) {
				vars := alwaysBound(fn, typeinfo.Infer(fn, bound...), bound)
				st.Opaque = opaque.Inject(fn, rng, names, vars, req.Opaque)
				bound = append(bound, st.Opaque.Dummy)
				return strconv.Itoa(st.Opaque.Returns) + " returns, " + strconv.Itoa(st.Opaque.Ifs) + " ifs", nil
			}); err != nil {
				return err
			}
		}
		if req.Passes.Has(PassMBA) {
			if err := pass("mba", func() (string, error) {
				facts := typeinfo.Infer(fn, bound...)
				st.MBA = mba.Rewrite(fn, facts, alwaysBound(fn, facts, bound), rng, req.MBA)
				trace.Point(tracer, trace.ScopeNode, "mba.rewrites", fnSpan.ID(), strconv.Itoa(st.MBA.Rewrites), nil)
				return strconv.Itoa(st.MBA.Rewrites) + " rewrites", nil
			}); err != nil {
				return err
			}
		}
		if req.Passes.Has(PassCFF) {
			if err := pass("cff", func() (string, error) {
				opts := req.CFF
				opts.Strict = opts.Strict || req.Strict
				cs, err := cff.Flatten(fn, rng, names, opts)
				if err != nil {
					var unsupported *cff.UnsupportedError
					if errors.As(err, &unsupported) {
						return "", &UnsupportedConstructError{Function: fn.Name, Construct: unsupported.Kind.String(), Span: unsupported.Span}
					}
					return "", err
				}
				st.CFF = cs
				trace.Point(tracer, trace.ScopeNode, "cff.states", fnSpan.ID(), strconv.Itoa(cs.States), nil)
				return strconv.Itoa(cs.States) + " states", nil
			}); err != nil {
				return err
			}
		}
		return nil
	}()
	st.Elapsed = time.Since(started)
	fnSpan.EndErr(err)
	return st, err
}

// alwaysBound returns int variables that hold a value at every statement:
// int parameters that stay int plus the names the passes bound themselves.
func alwaysBound(fn *ast.Function, facts *typeinfo.Facts, extra []string) []string {
	var out []string
	for _, p := range fn.Params {
		if p.Type() == ast.TypeInt && facts.IsIntName(p.Name) {
			out = append(out, p.Name)
		}
	}
	for _, n := range extra {
		if facts.IsIntName(n) {
			out = append(out, n)
		}
	}
	return out
}
