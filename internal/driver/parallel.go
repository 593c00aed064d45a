package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"shroud/internal/diag"
	"shroud/internal/source"
	"shroud/internal/trace"
)

// ObfuscateFiles rewrites every input in parallel. A broken file does not
// stop the others: its Err and Bag are set in the report. The returned
// error is reserved for invalid options and cancellation.
func ObfuscateFiles(ctx context.Context, paths []string, opts Options) (*Report, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	if opts.Output != "" && len(paths) > 1 {
		return nil, errors.New("an explicit output path needs exactly one input file")
	}
	started := time.Now()
	runSpan := trace.BeginIn(ctx, trace.ScopeDriver, "obfuscate")
	ctx = trace.Within(ctx, runSpan)

	// FileSet заполняется до запуска воркеров, дальше только читается
	fileSet := source.NewFileSet()
	results := make([]FileResult, len(paths))
	for i, path := range paths {
		res := &results[i]
		res.Path = path
		res.Bag = diag.NewBag(opts.maxDiagnostics())
		res.Output = opts.Output
		if res.Output == "" {
			res.Output = OutputPath(path, opts.Suffix, opts.OutDir)
		}
		loadStart := time.Now()
		id, err := fileSet.Load(path)
		res.Timings.Set(StageLoad, time.Since(loadStart))
		if err != nil {
			res.Err = &StageError{Path: path, Stage: StageLoad, Err: err}
			reportError(res.Bag, source.NoFile, StageLoad, fmt.Errorf("%s: %w", path, err))
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		res.FileID = id
		res.Loaded = true
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i := range results {
		if !results[i].Loaded {
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			job := &fileJob{fs: fileSet, opts: &opts, res: &results[i]}
			return job.run(gctx)
		})
	}
	err := g.Wait()
	report := &Report{Files: fileSet, Results: results, Elapsed: time.Since(started)}
	emit(opts.Progress, Event{Stage: StageWrite, Status: StatusDone, Elapsed: report.Elapsed})
	if err != nil {
		runSpan.End("cancelled")
		return report, err
	}
	runSpan.WithExtra("failed", strconv.Itoa(report.Failed())).End(strconv.Itoa(len(paths)) + " files")
	return report, nil
}
