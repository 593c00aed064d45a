package driver

import (
	"errors"
	"fmt"
	"strings"

	"shroud/internal/diag"
	"shroud/internal/parser"
	"shroud/internal/pipeline"
	"shroud/internal/source"
)

// ErrNoInputs is returned when ObfuscateFiles gets nothing to do.
var ErrNoInputs = errors.New("no input files")

// StageError wraps a per-file failure with the stage it happened in.
type StageError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// reportError переводит ошибку стадии в диагностики. Ошибки парсера уже
// несут собственный Bag, остальные получают один диагностический элемент.
func reportError(bag *diag.Bag, file source.FileID, stage Stage, err error) {
	whole := source.Span{File: file}

	var perr *parser.ParseError
	if errors.As(err, &perr) && perr.Bag != nil {
		bag.Merge(perr.Bag)
		return
	}
	var missing *pipeline.TargetNotFoundError
	if errors.As(err, &missing) {
		d := diag.NewError(missing.Code(), whole, missing.Error())
		for _, name := range missing.Missing {
			d = d.WithNote(whole, fmt.Sprintf("no top-level function named %q", name))
		}
		bag.Add(d)
		return
	}
	var unsupported *pipeline.UnsupportedConstructError
	if errors.As(err, &unsupported) {
		sp := unsupported.Span
		if sp.IsSynthetic() {
			sp = whole
		}
		bag.Add(diag.NewError(unsupported.Code(), sp, unsupported.Error()).
			WithNote(sp, "rerun without --strict to keep it as a single state"))
		return
	}

	code := diag.UnknownCode
	switch stage {
	case StageLoad:
		code = diag.IOLoadFileError
		whole = source.Span{File: source.NoFile}
	case StageWrite:
		code = diag.IOWriteFileError
	}
	bag.Add(diag.NewError(code, whole, err.Error()))
}

// reportShadowed warns that rebound builtins kept every value unencoded.
func reportShadowed(bag *diag.Bag, file source.FileID, names []string) {
	if len(names) == 0 {
		return
	}
	bag.Add(diag.New(diag.SevWarning, diag.ObfEncodeSkipped, source.Span{File: file},
		fmt.Sprintf("encode pass skipped: program rebinds builtin(s) %s", strings.Join(names, ", "))))
}

// reportPassthrough notes loops that flattening kept whole.
func reportPassthrough(bag *diag.Bag, file source.FileID, funcs []pipeline.FuncStats) {
	for _, fs := range funcs {
		if fs.CFF.Atomic == 0 {
			continue
		}
		bag.Add(diag.New(diag.SevInfo, diag.ObfFlattenPassthru, source.Span{File: file},
			fmt.Sprintf("function %q: %d statement(s) kept as single states", fs.Name, fs.CFF.Atomic)))
	}
}
