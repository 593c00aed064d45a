package driver

import (
	"time"

	"shroud/internal/diag"
	"shroud/internal/mask"
	"shroud/internal/pipeline"
	"shroud/internal/source"
)

// Options configures ObfuscateFiles.
type Options struct {
	Request pipeline.Request

	Output string // explicit output path, valid with a single input only
	OutDir string // directory for default output names; empty means next to the input
	Suffix string // default DefaultSuffix

	Jobs     int // files processed in parallel; <= 0 uses GOMAXPROCS
	Cache    *DiskCache
	Progress ProgressSink

	DryRun         bool // run everything but leave the disk untouched
	Timings        bool // attach an ObfTimings diagnostic per file
	MaxDiagnostics int
}

// FileResult describes one processed input.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Loaded  bool // false when the file could not be read; FileID is meaningless then
	Output  string
	Text    []byte // rewritten program text
	Seed    int64
	Cached  bool
	Helpers []string
	Masks   []mask.Entry
	Funcs   []pipeline.FuncStats
	Bag     *diag.Bag
	Err     error
	Timings Timings

	// Shadowed lists rebound builtins that kept the encode pass off.
	Shadowed []string
}

// OK reports whether the file was rewritten.
func (r *FileResult) OK() bool { return r.Err == nil }

// Report is the outcome of ObfuscateFiles. Results keep the input order.
type Report struct {
	Files   *source.FileSet
	Results []FileResult
	Elapsed time.Duration
}

// Failed counts files that were not rewritten.
func (r *Report) Failed() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Err != nil {
			n++
		}
	}
	return n
}

// Diagnostics merges the per-file bags, sorted.
func (r *Report) Diagnostics() *diag.Bag {
	total := 0
	for i := range r.Results {
		if r.Results[i].Bag != nil {
			total += r.Results[i].Bag.Len()
		}
	}
	out := diag.NewBag(max(total, 1))
	for i := range r.Results {
		if r.Results[i].Bag != nil {
			out.Merge(r.Results[i].Bag)
		}
	}
	out.Sort()
	return out
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 256
	}
	return o.MaxDiagnostics
}
