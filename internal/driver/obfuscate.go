package driver

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/format"
	"shroud/internal/parser"
	"shroud/internal/pipeline"
	"shroud/internal/source"
	"shroud/internal/trace"
)

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }

// fileJob carries what a worker needs for one input.
type fileJob struct {
	fs   *source.FileSet
	opts *Options
	res  *FileResult
}

func (j *fileJob) stage(ctx context.Context, stage Stage, run func(context.Context) error) error {
	emit(j.opts.Progress, Event{File: j.res.Path, Stage: stage, Status: StatusWorking})
	span := trace.BeginIn(ctx, trace.ScopePass, string(stage))
	started := time.Now()
	err := run(trace.Within(ctx, span))
	elapsed := time.Since(started)
	j.res.Timings.Set(stage, elapsed)
	span.EndErr(err)
	if err != nil {
		reportError(j.res.Bag, j.res.FileID, stage, err)
		j.res.Err = &StageError{Path: j.res.Path, Stage: stage, Err: err}
		emit(j.opts.Progress, Event{File: j.res.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	return nil
}

// run processes one loaded file. Failures end up in j.res; the returned
// error is non-nil only for cancellation.
func (j *fileJob) run(ctx context.Context) error {
	res := j.res
	opts := j.opts
	tracer := trace.FromContext(ctx)
	fileSpan := trace.BeginIn(ctx, trace.ScopeDriver, res.Path)
	// стадии и проходы ниже получают метку файла
	ctx = trace.WithFile(trace.Within(ctx, fileSpan), res.Path)
	defer func() { fileSpan.EndErr(res.Err) }()

	sf := j.fs.Get(res.FileID)
	key, cacheable := cacheKey(sf.Content, opts.Request)
	cacheable = cacheable && opts.Cache != nil
	hit := false
	if cacheable {
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOLoadFileError, source.Span{File: source.NoFile},
				"ignoring unreadable cache entry: "+err.Error()))
		}
		if ok {
			hit = true
			res.Cached = true
			res.Text = payload.Output
			res.Seed = payload.Seed
			res.Helpers = payload.Helpers
			res.Shadowed = payload.Shadowed
			res.Masks = payload.Masks
			res.Funcs = payload.Funcs
			trace.Point(tracer, trace.ScopeDriver, "cache.hit", fileSpan.ID(), key.String(), nil)
			emit(opts.Progress, Event{File: res.Path, Stage: StageObfuscate, Status: StatusCached})
		}
	}

	if !hit {
		var prog *ast.Program
		if err := j.stage(ctx, StageParse, func(context.Context) error {
			p, err := parser.Parse(j.fs, res.FileID)
			prog = p
			return err
		}); err != nil {
			return ctx.Err()
		}
		var out *pipeline.Result
		if err := j.stage(ctx, StageObfuscate, func(sctx context.Context) error {
			r, err := pipeline.Run(sctx, prog, opts.Request)
			out = r
			return err
		}); err != nil {
			return ctx.Err()
		}

		res.Seed = out.Seed
		res.Masks = out.Masks
		res.Funcs = out.Funcs
		res.Shadowed = out.Shadowed
		if out.Helpers != nil {
			res.Helpers = []string{out.Helpers.FromBytes, out.Helpers.ToBytes}
		}
		_ = j.stage(ctx, StagePrint, func(context.Context) error {
			res.Text = format.FormatProgram(out.Program, format.Options{})
			return nil
		})
		if cacheable {
			err := opts.Cache.Put(key, &DiskPayload{
				Path:     res.Path,
				Output:   res.Text,
				Seed:     res.Seed,
				Helpers:  res.Helpers,
				Shadowed: res.Shadowed,
				Masks:    res.Masks,
				Funcs:    res.Funcs,
			})
			if err != nil {
				res.Bag.Add(diag.New(diag.SevWarning, diag.IOWriteFileError, source.Span{File: source.NoFile},
					"failed to store cache entry: "+err.Error()))
			}
		}
	}
	reportShadowed(res.Bag, res.FileID, res.Shadowed)
	reportPassthrough(res.Bag, res.FileID, res.Funcs)

	if !opts.DryRun {
		if err := j.stage(ctx, StageWrite, func(context.Context) error {
			return writeAtomic(res.Output, res.Text)
		}); err != nil {
			return ctx.Err()
		}
	}
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, res.FileID, timingPayloadFor(res))
	}
	emit(opts.Progress, Event{File: res.Path, Stage: StageWrite, Status: StatusDone, Elapsed: res.Timings.Sum()})
	return ctx.Err()
}

// writeAtomic writes data next to path and renames it into place, so a
// failed run never leaves a truncated output.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
